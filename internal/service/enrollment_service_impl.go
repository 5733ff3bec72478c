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

type enrollmentService struct {
	enrollments repository.EnrollmentRepo
	uow         db.UnitOfWork
	cal         WorkingCalendar
}

func NewEnrollmentService(enrollments repository.EnrollmentRepo, uow db.UnitOfWork, cal WorkingCalendar) EnrollmentService {
	return &enrollmentService{enrollments: enrollments, uow: uow, cal: cal}
}

func (s *enrollmentService) Enroll(ctx context.Context, e *domain.Enrollment) error {
	if strings.TrimSpace(e.UserID) == "" {
		return app.BadRequest("user id is required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = domain.EnrollmentActive
	}
	if !domain.ValidEnrollmentStatuses[string(e.Status)] {
		return app.BadRequest("invalid enrollment status %q", e.Status)
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteSet(tx)
		path, err := repos.Paths.GetByID(ctx, e.LearningPathID)
		if err != nil {
			return storeErr("loading learning path", "learning path "+e.LearningPathID, err)
		}
		if e.Reschedulable() {
			end := s.cal.AddWorkingDays(*e.StartDate, path.TotalDays)
			e.EndDate = &end
		}
		if err := repos.Enrollments.Create(ctx, e); err != nil {
			return app.ExternalService("creating enrollment", err)
		}
		return nil
	})
}

func (s *enrollmentService) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("loading enrollment", "enrollment "+id, err)
	}
	return e, nil
}

func (s *enrollmentService) ListByLearningPath(ctx context.Context, pathID string) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByLearningPath(ctx, pathID)
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

func (s *enrollmentService) Withdraw(ctx context.Context, id string) error {
	return s.transition(ctx, id, (*domain.Enrollment).Withdraw)
}

func (s *enrollmentService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, (*domain.Enrollment).Complete)
}

func (s *enrollmentService) transition(ctx context.Context, id string, apply func(*domain.Enrollment, time.Time) error) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := apply(e, time.Now().UTC()); err != nil {
		return app.BadRequest("%s", err.Error())
	}
	if err := s.enrollments.Update(ctx, e); err != nil {
		return storeErr("updating enrollment", "enrollment "+id, err)
	}
	return nil
}
