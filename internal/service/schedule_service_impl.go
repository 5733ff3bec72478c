package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/scheduler"
)

type scheduleService struct {
	uow      db.UnitOfWork
	cal      WorkingCalendar
	observer UseCaseObserver
}

func NewScheduleService(uow db.UnitOfWork, cal WorkingCalendar, observers ...UseCaseObserver) ScheduleService {
	return newScheduleService(uow, cal, observers...)
}

func newScheduleService(uow db.UnitOfWork, cal WorkingCalendar, observers ...UseCaseObserver) *scheduleService {
	return &scheduleService{
		uow:      uow,
		cal:      cal,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) ScheduleCourse(ctx context.Context, req app.ScheduleCourseRequest) (resp *app.CourseScheduleResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"course_id": req.CourseID,
		"dry_run":   req.DryRun,
	}
	var warning string
	defer observe(ctx, s.observer, "schedule-course", startedAt, fields, &warning, &err)

	now := nowOr(req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		course, err := repos.Courses.GetByID(ctx, req.CourseID)
		if err != nil {
			return storeErr("loading course", "course "+req.CourseID, err)
		}
		resp, err = s.scheduleCourse(ctx, repos, course, req, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["topic_count"] = len(resp.Topics)
	fields["total_hours"] = resp.TotalHours
	fields["total_days"] = resp.TotalDays
	warning = unresolvedWarning(resp.Unresolved)
	return resp, nil
}

func (s *scheduleService) PreviewCourse(ctx context.Context, req app.ScheduleCourseRequest) (*app.CourseScheduleResponse, error) {
	req.DryRun = true
	return s.ScheduleCourse(ctx, req)
}

// scheduleCourse computes and, unless req.DryRun, persists one course
// schedule using repos. The caller owns the transaction.
func (s *scheduleService) scheduleCourse(ctx context.Context, repos repository.Set, course *domain.Course, req app.ScheduleCourseRequest, now time.Time) (*app.CourseScheduleResponse, error) {
	ids := course.TopicIDs
	if req.TopicIDs != nil {
		ids = req.TopicIDs
	}
	ids = scheduler.UniqueIDs(ids)
	prereqs := course.TopicPrerequisites
	if req.TopicPrerequisites != nil {
		prereqs = req.TopicPrerequisites
	}
	coreqs := course.TopicCorequisites
	if req.TopicCorequisites != nil {
		coreqs = req.TopicCorequisites
	}

	topics, err := repos.Topics.ListByIDs(ctx, ids)
	if err != nil {
		return nil, app.ExternalService("loading topics", err)
	}
	if len(topics) != len(ids) {
		return nil, app.BadRequest("course %s: topics not found: %s", course.ID, strings.Join(missingTopicIDs(ids, topics), ", "))
	}

	start := now
	if t := domain.CoalesceTime(req.StartAtOverride, course.StartAt, req.FallbackStartAt); t != nil {
		start = *t
	}

	byID := make(map[string]*domain.Topic, len(topics))
	hours := make(map[string]float64, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
		hours[t.ID] = scheduler.TopicHours(*t)
	}

	sched, err := scheduler.Compute(s.cal, scheduler.Input{
		TopicIDs:      ids,
		Hours:         hours,
		Prerequisites: prereqs,
		Corequisites:  coreqs,
		Start:         start,
	}, scheduler.Options{RejectCycles: req.RejectCycles})
	if err != nil {
		var cycErr *scheduler.CyclicDependencyError
		if errors.As(err, &cycErr) {
			return nil, app.CyclicDependency(err)
		}
		return nil, fmt.Errorf("computing schedule for course %s: %w", course.ID, err)
	}

	resp := courseResponse(course, byID, hours, sched)
	if req.DryRun {
		return resp, nil
	}

	for _, id := range sched.Order {
		w := sched.Topics[id]
		err := repos.Topics.UpdateSchedule(ctx, id, domain.TopicSchedule{
			StartDate:     timePtr(w.Start),
			EndDate:       timePtr(w.End),
			Prerequisites: sched.Relations.Prerequisites[id],
			Corequisites:  sched.Relations.Corequisites[id],
		})
		if err != nil {
			return nil, storeErr("updating topic schedule", "topic "+id, err)
		}
	}

	if req.TopicIDs != nil || req.TopicPrerequisites != nil || req.TopicCorequisites != nil {
		course.TopicIDs = ids
		course.TopicPrerequisites = domain.CopyRelations(prereqs)
		course.TopicCorequisites = domain.CopyRelations(coreqs)
		course.UpdatedAt = now
		if err := repos.Courses.Update(ctx, course); err != nil {
			return nil, storeErr("updating course topics", "course "+course.ID, err)
		}
	}

	before := course.Totals()
	totals := domain.ScheduleTotals{
		StartAt:    timePtr(sched.Start),
		EndAt:      timePtr(sched.End),
		TotalHours: sched.TotalHours,
		TotalDays:  sched.TotalDays,
	}
	if err := repos.Courses.UpdateSchedule(ctx, course.ID, totals); err != nil {
		return nil, storeErr("updating course schedule", "course "+course.ID, err)
	}
	course.ApplyTotals(totals, now)

	details := totalsDetails(before, totals)
	details["topic_count"] = len(ids)
	if len(sched.Unresolved) > 0 {
		details["unresolved"] = sched.Unresolved
	}
	if err := recordAudit(ctx, repos.Audit, domain.EntityCourse, course.ID, domain.ActionScheduleRecalculated, req.UpdatedBy, details, now); err != nil {
		return nil, err
	}

	resp.Applied = true
	return resp, nil
}

func (s *scheduleService) ScheduleLearningPath(ctx context.Context, req app.ScheduleLearningPathRequest) (resp *app.LearningPathScheduleResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"learning_path_id": req.LearningPathID}
	var warning string
	defer observe(ctx, s.observer, "schedule-learning-path", startedAt, fields, &warning, &err)

	now := nowOr(req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		path, err := repos.Paths.GetByID(ctx, req.LearningPathID)
		if err != nil {
			return storeErr("loading learning path", "learning path "+req.LearningPathID, err)
		}
		resp, err = s.scheduleLearningPath(ctx, repos, path, req.UpdatedBy, req.RejectCycles, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["course_count"] = len(resp.Courses)
	fields["total_days"] = resp.TotalDays
	fields["enrollments_updated"] = resp.EnrollmentsUpdated
	var unresolved []string
	for _, c := range resp.Courses {
		unresolved = append(unresolved, c.Unresolved...)
	}
	warning = unresolvedWarning(unresolved)
	return resp, nil
}

// scheduleLearningPath reschedules every member course from the path's start,
// then derives the path aggregate and enrollment end dates.
func (s *scheduleService) scheduleLearningPath(ctx context.Context, repos repository.Set, path *domain.LearningPath, actorID string, rejectCycles bool, now time.Time) (*app.LearningPathScheduleResponse, error) {
	resp := &app.LearningPathScheduleResponse{
		LearningPathID: path.ID,
		Title:          path.Title,
		Courses:        []app.CourseScheduleResponse{},
	}

	for _, courseID := range scheduler.UniqueIDs(path.CourseIDs) {
		course, err := repos.Courses.GetByID(ctx, courseID)
		if err != nil {
			return nil, storeErr("loading course", "course "+courseID, err)
		}
		cs, err := s.scheduleCourse(ctx, repos, course, app.ScheduleCourseRequest{
			CourseID:        courseID,
			StartAtOverride: path.StartAt,
			UpdatedBy:       actorID,
			RejectCycles:    rejectCycles,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("scheduling course %s: %w", courseID, err)
		}
		resp.Courses = append(resp.Courses, *cs)
		resp.TotalHours += cs.TotalHours
		resp.StartAt = earlier(resp.StartAt, cs.StartAt)
		resp.EndAt = later(resp.EndAt, cs.EndAt)
	}
	resp.TotalDays = scheduler.ToWorkingDays(resp.TotalHours)
	if len(resp.Courses) == 0 {
		resp.StartAt, resp.EndAt = path.StartAt, path.StartAt
	}

	before := path.Totals()
	totals := domain.ScheduleTotals{
		StartAt:    resp.StartAt,
		EndAt:      resp.EndAt,
		TotalHours: resp.TotalHours,
		TotalDays:  resp.TotalDays,
	}
	if err := repos.Paths.UpdateSchedule(ctx, path.ID, totals); err != nil {
		return nil, storeErr("updating learning path schedule", "learning path "+path.ID, err)
	}
	path.ApplyTotals(totals, now)

	details := totalsDetails(before, totals)
	details["course_count"] = len(resp.Courses)
	if err := recordAudit(ctx, repos.Audit, domain.EntityLearningPath, path.ID, domain.ActionScheduleRecalculated, actorID, details, now); err != nil {
		return nil, err
	}

	n, err := rescheduleEnrollments(ctx, s.cal, repos.Enrollments, path.ID, resp.TotalDays)
	if err != nil {
		return nil, err
	}
	resp.EnrollmentsUpdated = n
	return resp, nil
}

// rescheduleEnrollments re-derives the end date of every enrollment in the
// path that has a start date and is not withdrawn.
func rescheduleEnrollments(ctx context.Context, cal WorkingCalendar, enrollments repository.EnrollmentRepo, pathID string, totalDays int) (int, error) {
	list, err := enrollments.ListByLearningPath(ctx, pathID)
	if err != nil {
		return 0, app.ExternalService("loading enrollments", err)
	}
	n := 0
	for _, e := range list {
		if !e.Reschedulable() {
			continue
		}
		end := cal.AddWorkingDays(*e.StartDate, totalDays)
		if err := enrollments.UpdateEndDate(ctx, e.ID, &end); err != nil {
			return n, storeErr("updating enrollment end date", "enrollment "+e.ID, err)
		}
		n++
	}
	return n, nil
}

func courseResponse(course *domain.Course, topics map[string]*domain.Topic, hours map[string]float64, sched *scheduler.Schedule) *app.CourseScheduleResponse {
	fallback := make(map[string]bool, len(sched.Unresolved))
	for _, id := range sched.Unresolved {
		fallback[id] = true
	}

	resp := &app.CourseScheduleResponse{
		CourseID:   course.ID,
		Title:      course.Title,
		StartAt:    sched.Start,
		EndAt:      sched.End,
		TotalHours: sched.TotalHours,
		TotalDays:  sched.TotalDays,
		Topics:     make([]app.TopicScheduleView, 0, len(sched.Order)),
		Groups:     make([][]string, 0, len(sched.Groups)),
		Unresolved: sched.Unresolved,
	}
	for _, id := range sched.Order {
		w := sched.Topics[id]
		resp.Topics = append(resp.Topics, app.TopicScheduleView{
			TopicID:       id,
			Title:         topics[id].Title,
			Hours:         hours[id],
			StartDate:     w.Start,
			EndDate:       w.End,
			Prerequisites: sched.Relations.Prerequisites[id],
			Corequisites:  sched.Relations.Corequisites[id],
			Fallback:      fallback[id],
		})
	}
	for _, g := range sched.Groups {
		resp.Groups = append(resp.Groups, g.MemberIDs)
	}
	return resp
}

func missingTopicIDs(ids []string, found []*domain.Topic) []string {
	have := make(map[string]bool, len(found))
	for _, t := range found {
		have[t.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func totalsDetails(before, after domain.ScheduleTotals) map[string]any {
	return map[string]any{
		"hours_before": before.TotalHours,
		"hours_after":  after.TotalHours,
		"days_before":  before.TotalDays,
		"days_after":   after.TotalDays,
		"start_at":     dateString(after.StartAt),
		"end_before":   dateString(before.EndAt),
		"end_after":    dateString(after.EndAt),
	}
}

func unresolvedWarning(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return "topics placed by fallback pass (cyclic prerequisites): " + strings.Join(ids, ", ")
}
