package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/importer"
	"github.com/alexanderramin/curricula/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	sched    *scheduleService
	actorID  string
	observer UseCaseObserver
}

// NewImportService imports catalogs and schedules everything they contain.
// actorID is recorded on the resulting audit entries.
func NewImportService(uow db.UnitOfWork, cal WorkingCalendar, actorID string, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		sched:    newScheduleService(uow, cal),
		actorID:  actorOr(actorID),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportCatalog(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, app.BadRequest("loading import file: %v", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.CatalogSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	var warning string
	defer observe(ctx, s.observer, "import-catalog", startedAt, fields, &warning, &err)

	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	now := time.Now().UTC()
	cat, err := importer.Convert(schema, now)
	if err != nil {
		return nil, app.BadRequest("converting catalog: %v", err)
	}

	var unresolved []string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		if err := insertCatalog(ctx, repos, cat); err != nil {
			return err
		}

		schedules := make(map[string]app.CourseScheduleResponse, len(cat.Courses))
		for _, course := range cat.Courses {
			cs, err := s.sched.scheduleCourse(ctx, repos, course, app.ScheduleCourseRequest{CourseID: course.ID, UpdatedBy: s.actorID}, now)
			if err != nil {
				return fmt.Errorf("scheduling course %q: %w", course.Title, err)
			}
			schedules[course.ID] = *cs
			if err := recordAudit(ctx, repos.Audit, domain.EntityCourse, course.ID, domain.ActionCatalogImported, s.actorID, map[string]any{"topic_count": len(course.TopicIDs)}, now); err != nil {
				return err
			}
		}
		for _, path := range cat.Paths {
			ps, err := s.sched.scheduleLearningPath(ctx, repos, path, s.actorID, false, now)
			if err != nil {
				return fmt.Errorf("scheduling learning path %q: %w", path.Title, err)
			}
			for _, cs := range ps.Courses {
				schedules[cs.CourseID] = cs
			}
		}

		result = &app.ImportResult{
			TopicCount:      len(cat.Topics),
			CourseCount:     len(cat.Courses),
			PathCount:       len(cat.Paths),
			EnrollmentCount: len(cat.Enrollments),
			IDs:             cat.IDs,
			Schedules:       make([]app.CourseScheduleResponse, 0, len(cat.Courses)),
		}
		for _, course := range cat.Courses {
			cs := schedules[course.ID]
			result.Schedules = append(result.Schedules, cs)
			unresolved = append(unresolved, cs.Unresolved...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["topic_count"] = result.TopicCount
	fields["course_count"] = result.CourseCount
	fields["path_count"] = result.PathCount
	fields["enrollment_count"] = result.EnrollmentCount
	warning = unresolvedWarning(unresolved)
	return result, nil
}

// insertCatalog stores a converted catalog. Enrollments go in without an end
// date; scheduling their path derives it.
func insertCatalog(ctx context.Context, repos repository.Set, cat *importer.Catalog) error {
	for _, t := range cat.Topics {
		if err := repos.Topics.Create(ctx, t); err != nil {
			return app.ExternalService(fmt.Sprintf("creating topic %q", t.Title), err)
		}
	}
	for _, c := range cat.Courses {
		if err := repos.Courses.Create(ctx, c); err != nil {
			return app.ExternalService(fmt.Sprintf("creating course %q", c.Title), err)
		}
	}
	for _, p := range cat.Paths {
		if err := repos.Paths.Create(ctx, p); err != nil {
			return app.ExternalService(fmt.Sprintf("creating learning path %q", p.Title), err)
		}
	}
	for _, e := range cat.Enrollments {
		if err := repos.Enrollments.Create(ctx, e); err != nil {
			return app.ExternalService("creating enrollment for "+e.UserID, err)
		}
	}
	return nil
}
