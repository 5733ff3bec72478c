package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/google/uuid"
)

type topicService struct {
	topics   repository.TopicRepo
	uow      db.UnitOfWork
	cal      WorkingCalendar
	observer UseCaseObserver
}

func NewTopicService(topics repository.TopicRepo, uow db.UnitOfWork, cal WorkingCalendar, observers ...UseCaseObserver) TopicService {
	return &topicService{
		topics:   topics,
		uow:      uow,
		cal:      cal,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *topicService) Create(ctx context.Context, t *domain.Topic) error {
	if strings.TrimSpace(t.Title) == "" {
		return app.BadRequest("topic title is required")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := t.ValidateDuration(); err != nil {
		return app.BadRequest("%s", err.Error())
	}
	if t.Prerequisites == nil {
		t.Prerequisites = []string{}
	}
	if t.Corequisites == nil {
		t.Corequisites = []string{}
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.topics.Create(ctx, t); err != nil {
		return app.ExternalService("creating topic", err)
	}
	return nil
}

func (s *topicService) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	t, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("loading topic", "topic "+id, err)
	}
	return t, nil
}

func (s *topicService) List(ctx context.Context) ([]*domain.Topic, error) {
	return s.topics.List(ctx)
}

func (s *topicService) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return app.BadRequest("topic title is required")
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Title = title
	t.UpdatedAt = time.Now().UTC()
	if err := s.topics.Update(ctx, t); err != nil {
		return storeErr("updating topic", "topic "+id, err)
	}
	return nil
}

func (s *topicService) UpdateDuration(ctx context.Context, id string, allocated float64, unit domain.TimeUnit, actorID string) (resp *app.CascadeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"topic_id":       id,
		"time_allocated": allocated,
		"time_unit":      string(unit),
	}
	defer observe(ctx, s.observer, "update-topic-duration", startedAt, fields, nil, &err)

	probe := domain.Topic{ID: id, TimeAllocated: allocated, TimeUnit: unit}
	if err := probe.ValidateDuration(); err != nil {
		return nil, app.BadRequest("%s", err.Error())
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		t, err := repos.Topics.GetByID(ctx, id)
		if err != nil {
			return storeErr("loading topic", "topic "+id, err)
		}

		beforeAllocated, beforeUnit := t.TimeAllocated, t.TimeUnit
		if !t.SetDuration(allocated, unit, now) {
			resp = &app.CascadeResponse{TopicID: id, Courses: []app.TotalsDelta{}, Paths: []app.TotalsDelta{}}
			return nil
		}
		if err := repos.Topics.Update(ctx, t); err != nil {
			return storeErr("updating topic", "topic "+id, err)
		}
		details := map[string]any{
			"time_allocated_before": beforeAllocated,
			"time_unit_before":      string(beforeUnit),
			"time_allocated_after":  allocated,
			"time_unit_after":       string(unit),
		}
		if err := recordAudit(ctx, repos.Audit, domain.EntityTopic, id, domain.ActionDurationChanged, actorID, details, now); err != nil {
			return err
		}

		resp, err = cascade(ctx, s.cal, repos, app.CascadeRequest{TopicID: id, UpdatedBy: actorOr(actorID)}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["courses_updated"] = len(resp.Courses)
	fields["paths_updated"] = len(resp.Paths)
	return resp, nil
}

// Delete refuses to remove a topic that a course still lists.
func (s *topicService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		courses, err := repos.Courses.ListContainingTopic(ctx, id)
		if err != nil {
			return app.ExternalService("finding courses containing topic", err)
		}
		if len(courses) > 0 {
			return app.BadRequest("topic %s is used by %d course(s)", id, len(courses))
		}
		if err := repos.Topics.Delete(ctx, id); err != nil {
			return storeErr("deleting topic", "topic "+id, err)
		}
		return nil
	})
}
