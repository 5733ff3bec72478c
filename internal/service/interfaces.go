package service

import (
	"context"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/domain"
)

// WorkingCalendar is the calendar the services schedule against.
type WorkingCalendar interface {
	IsWorkingDay(t time.Time) bool
	NextWorkingDay(t time.Time) time.Time
	AddWorkingDays(start time.Time, totalDays int) time.Time
}

type ScheduleService interface {
	app.ScheduleCourseUseCase
	app.ScheduleLearningPathUseCase
	app.CascadeUseCase
	// PreviewCourse computes a course schedule without writing it.
	PreviewCourse(ctx context.Context, req app.ScheduleCourseRequest) (*app.CourseScheduleResponse, error)
}

type TopicService interface {
	Create(ctx context.Context, t *domain.Topic) error
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	List(ctx context.Context) ([]*domain.Topic, error)
	Rename(ctx context.Context, id, title string) error
	// UpdateDuration changes a topic's duration and cascades the new totals
	// to courses, learning paths and enrollments in the same transaction.
	UpdateDuration(ctx context.Context, id string, allocated float64, unit domain.TimeUnit, actorID string) (*app.CascadeResponse, error)
	Delete(ctx context.Context, id string) error
}

type CourseService interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	ListContainingTopic(ctx context.Context, topicID string) ([]*domain.Course, error)
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
}

type LearningPathService interface {
	Create(ctx context.Context, p *domain.LearningPath) error
	GetByID(ctx context.Context, id string) (*domain.LearningPath, error)
	List(ctx context.Context) ([]*domain.LearningPath, error)
	// Update stores the path and, when its courses or start changed,
	// reschedules it like ScheduleLearningPath.
	Update(ctx context.Context, p *domain.LearningPath, actorID string, rejectCycles bool) (*app.LearningPathScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}

type EnrollmentService interface {
	// Enroll creates an enrollment and derives its end date from the path's
	// current total days.
	Enroll(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	ListByLearningPath(ctx context.Context, pathID string) ([]*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	Withdraw(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
}

type AuditService interface {
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

type ImportService interface {
	app.ImportCatalogUseCase
}
