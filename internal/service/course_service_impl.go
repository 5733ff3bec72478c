package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/scheduler"
	"github.com/google/uuid"
)

type courseService struct {
	courses repository.CourseRepo
	uow     db.UnitOfWork
}

func NewCourseService(courses repository.CourseRepo, uow db.UnitOfWork) CourseService {
	return &courseService{courses: courses, uow: uow}
}

// Create stores a course without scheduling it. Every listed topic must exist.
func (s *courseService) Create(ctx context.Context, c *domain.Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return app.BadRequest("course title is required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.TopicIDs = scheduler.UniqueIDs(c.TopicIDs)
	if c.TopicPrerequisites == nil {
		c.TopicPrerequisites = map[string][]string{}
	}
	if c.TopicCorequisites == nil {
		c.TopicCorequisites = map[string][]string{}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		topics, err := repos.Topics.ListByIDs(ctx, c.TopicIDs)
		if err != nil {
			return app.ExternalService("loading topics", err)
		}
		if len(topics) != len(c.TopicIDs) {
			return app.BadRequest("course %s: topics not found: %s", c.ID, strings.Join(missingTopicIDs(c.TopicIDs, topics), ", "))
		}
		if err := repos.Courses.Create(ctx, c); err != nil {
			return app.ExternalService("creating course", err)
		}
		return nil
	})
}

func (s *courseService) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("loading course", "course "+id, err)
	}
	return c, nil
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) ListContainingTopic(ctx context.Context, topicID string) ([]*domain.Course, error) {
	return s.courses.ListContainingTopic(ctx, topicID)
}

func (s *courseService) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return app.BadRequest("course title is required")
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
	if err := s.courses.Update(ctx, c); err != nil {
		return storeErr("updating course", "course "+id, err)
	}
	return nil
}

// Delete refuses to remove a course that a learning path still lists.
func (s *courseService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		paths, err := repos.Paths.ListContainingCourse(ctx, id)
		if err != nil {
			return app.ExternalService("finding learning paths containing course", err)
		}
		if len(paths) > 0 {
			return app.BadRequest("course %s is used by %d learning path(s)", id, len(paths))
		}
		if err := repos.Courses.Delete(ctx, id); err != nil {
			return storeErr("deleting course", "course "+id, err)
		}
		return nil
	})
}
