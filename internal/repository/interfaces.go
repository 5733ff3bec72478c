package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/curricula/internal/domain"
)

// ErrNotFound is wrapped by every lookup or targeted update that matches no row.
var ErrNotFound = errors.New("not found")

type TopicRepo interface {
	Create(ctx context.Context, t *domain.Topic) error
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	// ListByIDs returns the topics that exist, in the order of ids. Missing
	// ids are skipped; callers compare lengths.
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Topic, error)
	List(ctx context.Context) ([]*domain.Topic, error)
	Update(ctx context.Context, t *domain.Topic) error
	UpdateSchedule(ctx context.Context, id string, s domain.TopicSchedule) error
	Delete(ctx context.Context, id string) error
}

type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	ListContainingTopic(ctx context.Context, topicID string) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	UpdateSchedule(ctx context.Context, id string, s domain.ScheduleTotals) error
	Delete(ctx context.Context, id string) error
}

type LearningPathRepo interface {
	Create(ctx context.Context, p *domain.LearningPath) error
	GetByID(ctx context.Context, id string) (*domain.LearningPath, error)
	List(ctx context.Context) ([]*domain.LearningPath, error)
	ListContainingCourse(ctx context.Context, courseID string) ([]*domain.LearningPath, error)
	Update(ctx context.Context, p *domain.LearningPath) error
	UpdateSchedule(ctx context.Context, id string, s domain.ScheduleTotals) error
	Delete(ctx context.Context, id string) error
}

type EnrollmentRepo interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	ListByLearningPath(ctx context.Context, learningPathID string) ([]*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	Update(ctx context.Context, e *domain.Enrollment) error
	UpdateEndDate(ctx context.Context, id string, end *time.Time) error
	Delete(ctx context.Context, id string) error
}

type AuditRepo interface {
	Record(ctx context.Context, e *domain.AuditEntry) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
