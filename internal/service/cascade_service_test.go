package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	env        *testEnv
	a, b       *domain.Topic
	course     *domain.Course
	path       *domain.LearningPath
	enrollment *domain.Enrollment
}

// newCascadeFixture schedules one path [course [A 2d, B 1d]] from Monday
// 2025-01-06 with one enrollment starting 2025-01-13.
func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	env := newTestEnv(t)
	f := &cascadeFixture{env: env}
	f.a = env.topic(t, "A", testutil.WithDays(2))
	f.b = env.topic(t, "B", testutil.WithDays(1))
	f.course = env.course(t, "Course", testutil.WithTopics(f.a.ID, f.b.ID), testutil.WithCourseStart(monday))
	f.path = env.path(t, "Track", testutil.WithCourses(f.course.ID), testutil.WithPathStart(monday))
	f.enrollment = env.enrollment(t, f.path.ID, "alice", testutil.WithEnrollmentStart(testutil.Date(2025, 1, 13)))

	_, err := NewScheduleService(env.uow, env.cal).ScheduleLearningPath(context.Background(), app.NewScheduleLearningPathRequest(f.path.ID))
	require.NoError(t, err)
	require.Equal(t, 24.0, env.reloadCourse(t, f.course.ID).TotalHours)
	assertDay(t, testutil.Date(2025, 1, 15), env.reloadEnrollment(t, f.enrollment.ID).EndDate)
	return f
}

func hasAction(entries []*domain.AuditEntry, action domain.AuditAction) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

func TestUpdateDuration_CascadesToCoursePathAndEnrollments(t *testing.T) {
	f := newCascadeFixture(t)
	env := f.env
	svc := NewTopicService(env.repos.Topics, env.uow, env.cal)

	resp, err := svc.UpdateDuration(context.Background(), f.a.ID, 4, domain.TimeUnitDays, "admin")
	require.NoError(t, err)

	require.Len(t, resp.Courses, 1)
	delta := resp.Courses[0]
	assert.Equal(t, 24.0, delta.HoursBefore)
	assert.Equal(t, 40.0, delta.HoursAfter)
	assert.Equal(t, 3, delta.DaysBefore)
	assert.Equal(t, 5, delta.DaysAfter)
	assertDay(t, testutil.Date(2025, 1, 8), delta.EndBefore)
	assertDay(t, testutil.Date(2025, 1, 10), delta.EndAfter)
	assert.True(t, delta.Changed())

	require.Len(t, resp.Paths, 1)
	assert.Equal(t, 40.0, resp.Paths[0].HoursAfter)
	assert.Equal(t, 1, resp.EnrollmentsUpdated)

	topic := env.reloadTopic(t, f.a.ID)
	assert.Equal(t, 4.0, topic.TimeAllocated)

	course := env.reloadCourse(t, f.course.ID)
	assert.Equal(t, 40.0, course.TotalHours)
	assert.Equal(t, 5, course.TotalDays)
	assertDay(t, monday, course.StartAt)
	assertDay(t, testutil.Date(2025, 1, 10), course.EndAt)

	path := env.reloadPath(t, f.path.ID)
	assert.Equal(t, 40.0, path.TotalHours)
	assert.Equal(t, 5, path.TotalDays)
	assertDay(t, testutil.Date(2025, 1, 10), path.EndAt)

	assertDay(t, testutil.Date(2025, 1, 17), env.reloadEnrollment(t, f.enrollment.ID).EndDate)

	topicAudit := env.auditFor(t, domain.EntityTopic, f.a.ID)
	require.Len(t, topicAudit, 1)
	assert.Equal(t, domain.ActionDurationChanged, topicAudit[0].Action)
	assert.Equal(t, "admin", topicAudit[0].ActorID)

	courseAudit := env.auditFor(t, domain.EntityCourse, f.course.ID)
	assert.True(t, hasAction(courseAudit, domain.ActionDurationCascade))
	assert.True(t, hasAction(env.auditFor(t, domain.EntityLearningPath, f.path.ID), domain.ActionDurationCascade))
}

func TestUpdateDuration_UnchangedSkipsCascade(t *testing.T) {
	f := newCascadeFixture(t)
	svc := NewTopicService(f.env.repos.Topics, f.env.uow, f.env.cal)

	resp, err := svc.UpdateDuration(context.Background(), f.a.ID, 2, domain.TimeUnitDays, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Courses)
	assert.Empty(t, resp.Paths)
	assert.Empty(t, f.env.auditFor(t, domain.EntityTopic, f.a.ID))
}

func TestUpdateDuration_RejectsInvalidDuration(t *testing.T) {
	f := newCascadeFixture(t)
	svc := NewTopicService(f.env.repos.Topics, f.env.uow, f.env.cal)

	_, err := svc.UpdateDuration(context.Background(), f.a.ID, 0, domain.TimeUnitHours, "")
	code, ok := app.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, app.ErrBadRequest, code)

	_, err = svc.UpdateDuration(context.Background(), f.a.ID, 3, domain.TimeUnit("weeks"), "")
	code, _ = app.CodeOf(err)
	assert.Equal(t, app.ErrBadRequest, code)
}

func TestUpdateDuration_RollsBackWholeCascade(t *testing.T) {
	f := newCascadeFixture(t)
	env := f.env

	boom := errors.New("io error")
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 1, Match: "UPDATE learning_paths", Err: boom}
	svc := NewTopicService(env.repos.Topics, uow, env.cal)

	_, err := svc.UpdateDuration(context.Background(), f.a.ID, 4, domain.TimeUnitDays, "")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 2.0, env.reloadTopic(t, f.a.ID).TimeAllocated)
	assert.Equal(t, 24.0, env.reloadCourse(t, f.course.ID).TotalHours)
	assert.Equal(t, 24.0, env.reloadPath(t, f.path.ID).TotalHours)
	assertDay(t, testutil.Date(2025, 1, 15), env.reloadEnrollment(t, f.enrollment.ID).EndDate)
	assert.Empty(t, env.auditFor(t, domain.EntityTopic, f.a.ID))
}

func TestRecalculateForTopic_Idempotent(t *testing.T) {
	f := newCascadeFixture(t)
	env := f.env
	ctx := context.Background()

	// Change the duration behind the service's back, as a bulk edit would.
	topic := env.reloadTopic(t, f.b.ID)
	topic.SetDuration(12, domain.TimeUnitHours, topic.UpdatedAt)
	require.NoError(t, env.repos.Topics.Update(ctx, topic))

	svc := NewScheduleService(env.uow, env.cal)
	first, err := svc.RecalculateForTopic(ctx, app.NewCascadeRequest(f.b.ID))
	require.NoError(t, err)
	require.Len(t, first.Courses, 1)
	assert.Equal(t, 28.0, first.Courses[0].HoursAfter)
	assert.Equal(t, 4, first.Courses[0].DaysAfter)

	second, err := svc.RecalculateForTopic(ctx, app.NewCascadeRequest(f.b.ID))
	require.NoError(t, err)
	require.Len(t, second.Courses, 1)
	assert.False(t, second.Courses[0].Changed())
	require.Len(t, second.Paths, 1)
	assert.False(t, second.Paths[0].Changed())
	assertDay(t, testutil.Date(2025, 1, 16), env.reloadEnrollment(t, f.enrollment.ID).EndDate)
}

func TestRecalculateForTopic_PathUpdatedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.topic(t, "A")
	b := env.topic(t, "B")
	c1 := env.course(t, "One", testutil.WithTopics(a.ID))
	c2 := env.course(t, "Two", testutil.WithTopics(a.ID, b.ID))
	path := env.path(t, "Track", testutil.WithCourses(c1.ID, c2.ID))

	resp, err := NewScheduleService(env.uow, env.cal).RecalculateForTopic(ctx, app.NewCascadeRequest(a.ID))
	require.NoError(t, err)
	assert.Len(t, resp.Courses, 2)
	require.Len(t, resp.Paths, 1)
	assert.Equal(t, 24.0, resp.Paths[0].HoursAfter)
	assert.Equal(t, 3, resp.Paths[0].DaysAfter)

	// No start dates anywhere: totals move, windows stay empty.
	stored := env.reloadPath(t, path.ID)
	assert.Equal(t, 3, stored.TotalDays)
	assert.Nil(t, stored.EndAt)
	assert.Nil(t, env.reloadCourse(t, c2.ID).EndAt)
}

func TestRecalculateForTopic_UnknownTopic(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewScheduleService(env.uow, env.cal).RecalculateForTopic(context.Background(), app.NewCascadeRequest("missing"))
	code, ok := app.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, app.ErrNotFound, code)
}

func TestRecalculateForTopic_RejectsCourseWithMissingTopic(t *testing.T) {
	env := newTestEnv(t)
	a := env.topic(t, "A", testutil.WithDays(2))
	course := env.course(t, "Course", testutil.WithTopics(a.ID, "ghost"), testutil.WithCourseStart(monday))
	require.NoError(t, env.repos.Courses.UpdateSchedule(context.Background(), course.ID, domain.ScheduleTotals{TotalHours: 40, TotalDays: 5}))

	_, err := NewScheduleService(env.uow, env.cal).RecalculateForTopic(context.Background(), app.NewCascadeRequest(a.ID))
	requireCode(t, app.ErrBadRequest, err)
	assert.Contains(t, err.Error(), "ghost")

	stored := env.reloadCourse(t, course.ID)
	assert.Equal(t, 40.0, stored.TotalHours)
	assert.Equal(t, 5, stored.TotalDays)
}

func TestRecalculateForTopic_TopicInNoCourse(t *testing.T) {
	env := newTestEnv(t)
	a := env.topic(t, "Loose")
	resp, err := NewScheduleService(env.uow, env.cal).RecalculateForTopic(context.Background(), app.NewCascadeRequest(a.ID))
	require.NoError(t, err)
	assert.Empty(t, resp.Courses)
	assert.Empty(t, resp.Paths)
	assert.Zero(t, resp.EnrollmentsUpdated)
}
