package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/scheduler"
	"github.com/google/uuid"
)

type learningPathService struct {
	paths repository.LearningPathRepo
	uow   db.UnitOfWork
	cal   WorkingCalendar
}

func NewLearningPathService(paths repository.LearningPathRepo, uow db.UnitOfWork, cal WorkingCalendar) LearningPathService {
	return &learningPathService{paths: paths, uow: uow, cal: cal}
}

func (s *learningPathService) Create(ctx context.Context, p *domain.LearningPath) error {
	if strings.TrimSpace(p.Title) == "" {
		return app.BadRequest("learning path title is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CourseIDs = scheduler.UniqueIDs(p.CourseIDs)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		if err := requireCourses(ctx, repos.Courses, p.CourseIDs); err != nil {
			return err
		}
		if err := repos.Paths.Create(ctx, p); err != nil {
			return app.ExternalService("creating learning path", err)
		}
		return nil
	})
}

func (s *learningPathService) GetByID(ctx context.Context, id string) (*domain.LearningPath, error) {
	p, err := s.paths.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("loading learning path", "learning path "+id, err)
	}
	return p, nil
}

func (s *learningPathService) List(ctx context.Context) ([]*domain.LearningPath, error) {
	return s.paths.List(ctx)
}

// Update stores title, course list and start. A changed course list or start
// reschedules the path in the same transaction; the response is nil when
// neither changed.
func (s *learningPathService) Update(ctx context.Context, p *domain.LearningPath, actorID string, rejectCycles bool) (*app.LearningPathScheduleResponse, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, app.BadRequest("learning path title is required")
	}
	p.CourseIDs = scheduler.UniqueIDs(p.CourseIDs)
	now := time.Now().UTC()
	p.UpdatedAt = now

	var resp *app.LearningPathScheduleResponse
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		stored, err := repos.Paths.GetByID(ctx, p.ID)
		if err != nil {
			return storeErr("loading learning path", "learning path "+p.ID, err)
		}
		if err := requireCourses(ctx, repos.Courses, p.CourseIDs); err != nil {
			return err
		}
		if err := repos.Paths.Update(ctx, p); err != nil {
			return storeErr("updating learning path", "learning path "+p.ID, err)
		}
		if slices.Equal(stored.CourseIDs, p.CourseIDs) && sameDay(stored.StartAt, p.StartAt) {
			return nil
		}
		resp, err = newScheduleService(s.uow, s.cal).scheduleLearningPath(ctx, repos, p, actorID, rejectCycles, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *learningPathService) Delete(ctx context.Context, id string) error {
	if err := s.paths.Delete(ctx, id); err != nil {
		return storeErr("deleting learning path", "learning path "+id, err)
	}
	return nil
}

func requireCourses(ctx context.Context, courses repository.CourseRepo, ids []string) error {
	var missing []string
	for _, id := range ids {
		_, err := courses.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return app.ExternalService("loading course", err)
		}
	}
	if len(missing) > 0 {
		return app.BadRequest("courses not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format(dateLayout) == b.Format(dateLayout)
}
