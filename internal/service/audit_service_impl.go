package service

import (
	"context"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/repository"
)

type auditService struct {
	audit repository.AuditRepo
}

func NewAuditService(audit repository.AuditRepo) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.AuditEntry, error) {
	return s.audit.ListByEntity(ctx, entityType, entityID)
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return s.audit.ListRecent(ctx, limit)
}
