package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// storeErr maps a repository failure onto the scheduling error taxonomy.
// Errors that already carry a code pass through.
func storeErr(op, what string, err error) error {
	if _, ok := app.CodeOf(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return app.NotFound(what, err)
	}
	return app.ExternalService(op, err)
}

func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

func actorOr(actorID string) string {
	return domain.CoalesceStr(actorID, app.SystemActor)
}

func recordAudit(ctx context.Context, audit repository.AuditRepo, entityType domain.EntityType, entityID string, action domain.AuditAction, actorID string, details map[string]any, now time.Time) error {
	entry := &domain.AuditEntry{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorOr(actorID),
		Details:    details,
		CreatedAt:  now,
	}
	if err := audit.Record(ctx, entry); err != nil {
		return app.ExternalService(fmt.Sprintf("recording audit entry for %s %s", entityType, entityID), err)
	}
	return nil
}

func dateString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func earlier(a *time.Time, b time.Time) *time.Time {
	if a == nil || b.Before(*a) {
		return timePtr(b)
	}
	return a
}

func later(a *time.Time, b time.Time) *time.Time {
	if a == nil || b.After(*a) {
		return timePtr(b)
	}
	return a
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return app.BadRequest("%s", msg)
}
