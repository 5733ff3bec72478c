package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/scheduler"
)

func (s *scheduleService) RecalculateForTopic(ctx context.Context, req app.CascadeRequest) (resp *app.CascadeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"topic_id": req.TopicID}
	defer observe(ctx, s.observer, "recalculate-for-topic", startedAt, fields, nil, &err)

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		if _, err := repos.Topics.GetByID(ctx, req.TopicID); err != nil {
			return storeErr("loading topic", "topic "+req.TopicID, err)
		}
		var cerr error
		resp, cerr = cascade(ctx, s.cal, repos, req, now)
		return cerr
	})
	if err != nil {
		return nil, err
	}

	fields["courses_updated"] = len(resp.Courses)
	fields["paths_updated"] = len(resp.Paths)
	fields["enrollments_updated"] = resp.EnrollmentsUpdated
	return resp, nil
}

// cascade recomputes the totals of every course containing req.TopicID, then
// every learning path containing one of those courses, then the end dates of
// those paths' enrollments. Course and path windows keep their start; the end
// is re-derived from the new day count. Every step overwrites, so running it
// again is harmless.
func cascade(ctx context.Context, cal WorkingCalendar, repos repository.Set, req app.CascadeRequest, now time.Time) (*app.CascadeResponse, error) {
	resp := &app.CascadeResponse{
		TopicID: req.TopicID,
		Courses: []app.TotalsDelta{},
		Paths:   []app.TotalsDelta{},
	}

	courses, err := repos.Courses.ListContainingTopic(ctx, req.TopicID)
	if err != nil {
		return nil, app.ExternalService("finding courses containing topic", err)
	}

	var paths []*domain.LearningPath
	seen := make(map[string]bool)
	for _, course := range courses {
		delta, err := recalculateCourse(ctx, cal, repos, course, req, now)
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, delta)

		containing, err := repos.Paths.ListContainingCourse(ctx, course.ID)
		if err != nil {
			return nil, app.ExternalService("finding learning paths containing course", err)
		}
		for _, p := range containing {
			if !seen[p.ID] {
				seen[p.ID] = true
				paths = append(paths, p)
			}
		}
	}

	for _, path := range paths {
		delta, err := recalculatePath(ctx, cal, repos, path, req, now)
		if err != nil {
			return nil, err
		}
		resp.Paths = append(resp.Paths, delta)

		n, err := rescheduleEnrollments(ctx, cal, repos.Enrollments, path.ID, path.TotalDays)
		if err != nil {
			return nil, err
		}
		resp.EnrollmentsUpdated += n
	}
	return resp, nil
}

func recalculateCourse(ctx context.Context, cal WorkingCalendar, repos repository.Set, course *domain.Course, req app.CascadeRequest, now time.Time) (app.TotalsDelta, error) {
	ids := scheduler.UniqueIDs(course.TopicIDs)
	topics, err := repos.Topics.ListByIDs(ctx, ids)
	if err != nil {
		return app.TotalsDelta{}, app.ExternalService("loading course topics", err)
	}
	if len(topics) != len(ids) {
		return app.TotalsDelta{}, app.BadRequest("course %s: topics not found: %s", course.ID, strings.Join(missingTopicIDs(ids, topics), ", "))
	}
	vals := make([]domain.Topic, len(topics))
	for i, t := range topics {
		vals[i] = *t
	}
	hours, days := scheduler.Totals(vals)

	before := course.Totals()
	after := domain.ScheduleTotals{
		StartAt:    course.StartAt,
		EndAt:      course.EndAt,
		TotalHours: hours,
		TotalDays:  days,
	}
	if course.StartAt != nil {
		after.EndAt = timePtr(cal.AddWorkingDays(*course.StartAt, days))
	}
	if err := repos.Courses.UpdateSchedule(ctx, course.ID, after); err != nil {
		return app.TotalsDelta{}, storeErr("updating course schedule", "course "+course.ID, err)
	}
	course.ApplyTotals(after, now)

	details := totalsDetails(before, after)
	details["trigger_topic_id"] = req.TopicID
	if err := recordAudit(ctx, repos.Audit, domain.EntityCourse, course.ID, domain.ActionDurationCascade, req.UpdatedBy, details, now); err != nil {
		return app.TotalsDelta{}, err
	}
	return totalsDelta(domain.EntityCourse, course.ID, course.Title, before, after), nil
}

func recalculatePath(ctx context.Context, cal WorkingCalendar, repos repository.Set, path *domain.LearningPath, req app.CascadeRequest, now time.Time) (app.TotalsDelta, error) {
	var hours float64
	for _, courseID := range scheduler.UniqueIDs(path.CourseIDs) {
		course, err := repos.Courses.GetByID(ctx, courseID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return app.TotalsDelta{}, app.ExternalService("loading path course", err)
		}
		hours += course.TotalHours
	}
	days := scheduler.ToWorkingDays(hours)

	before := path.Totals()
	after := domain.ScheduleTotals{
		StartAt:    path.StartAt,
		EndAt:      path.EndAt,
		TotalHours: hours,
		TotalDays:  days,
	}
	if path.StartAt != nil {
		after.EndAt = timePtr(cal.AddWorkingDays(*path.StartAt, days))
	}
	if err := repos.Paths.UpdateSchedule(ctx, path.ID, after); err != nil {
		return app.TotalsDelta{}, storeErr("updating learning path schedule", "learning path "+path.ID, err)
	}
	path.ApplyTotals(after, now)

	details := totalsDetails(before, after)
	details["trigger_topic_id"] = req.TopicID
	if err := recordAudit(ctx, repos.Audit, domain.EntityLearningPath, path.ID, domain.ActionDurationCascade, req.UpdatedBy, details, now); err != nil {
		return app.TotalsDelta{}, err
	}
	return totalsDelta(domain.EntityLearningPath, path.ID, path.Title, before, after), nil
}

func totalsDelta(entityType domain.EntityType, id, title string, before, after domain.ScheduleTotals) app.TotalsDelta {
	return app.TotalsDelta{
		EntityType:  entityType,
		EntityID:    id,
		Title:       title,
		HoursBefore: before.TotalHours,
		HoursAfter:  after.TotalHours,
		DaysBefore:  before.TotalDays,
		DaysAfter:   after.TotalDays,
		EndBefore:   before.EndAt,
		EndAfter:    after.EndAt,
	}
}
