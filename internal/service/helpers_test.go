package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/curricula/internal/calendar"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db    *sql.DB
	uow   db.UnitOfWork
	cal   *calendar.Calendar
	repos repository.Set
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:    database,
		uow:   testutil.NewTestUoW(database),
		cal:   calendar.Default(),
		repos: repository.NewSQLiteSet(database),
	}
}

func (e *testEnv) topic(t *testing.T, title string, opts ...testutil.TopicOption) *domain.Topic {
	t.Helper()
	topic := testutil.NewTestTopic(title, opts...)
	require.NoError(t, e.repos.Topics.Create(context.Background(), topic))
	return topic
}

func (e *testEnv) course(t *testing.T, title string, opts ...testutil.CourseOption) *domain.Course {
	t.Helper()
	c := testutil.NewTestCourse(title, opts...)
	require.NoError(t, e.repos.Courses.Create(context.Background(), c))
	return c
}

func (e *testEnv) path(t *testing.T, title string, opts ...testutil.PathOption) *domain.LearningPath {
	t.Helper()
	p := testutil.NewTestLearningPath(title, opts...)
	require.NoError(t, e.repos.Paths.Create(context.Background(), p))
	return p
}

func (e *testEnv) enrollment(t *testing.T, pathID, userID string, opts ...testutil.EnrollmentOption) *domain.Enrollment {
	t.Helper()
	en := testutil.NewTestEnrollment(pathID, userID, opts...)
	require.NoError(t, e.repos.Enrollments.Create(context.Background(), en))
	return en
}

func (e *testEnv) reloadTopic(t *testing.T, id string) *domain.Topic {
	t.Helper()
	topic, err := e.repos.Topics.GetByID(context.Background(), id)
	require.NoError(t, err)
	return topic
}

func (e *testEnv) reloadCourse(t *testing.T, id string) *domain.Course {
	t.Helper()
	c, err := e.repos.Courses.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (e *testEnv) reloadPath(t *testing.T, id string) *domain.LearningPath {
	t.Helper()
	p, err := e.repos.Paths.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) reloadEnrollment(t *testing.T, id string) *domain.Enrollment {
	t.Helper()
	en, err := e.repos.Enrollments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return en
}

func (e *testEnv) auditFor(t *testing.T, entityType domain.EntityType, id string) []*domain.AuditEntry {
	t.Helper()
	entries, err := e.repos.Audit.ListByEntity(context.Background(), entityType, id)
	require.NoError(t, err)
	return entries
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

func assertDay(t *testing.T, want time.Time, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.Format(dateLayout), got.Format(dateLayout))
}
