package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/domain"
)

// SQLiteAuditRepo is the audit sink. Entries are append-only.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

// auditTimeLayout keeps a fixed-width fraction so created_at sorts as text.
const auditTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const auditColumns = `id, entity_type, entity_id, action, actor_id, details, created_at`

func (r *SQLiteAuditRepo) Record(ctx context.Context, e *domain.AuditEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding audit details: %w", err)
	}
	query := `INSERT INTO audit_log (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		string(e.EntityType),
		e.EntityID,
		string(e.Action),
		e.ActorID,
		string(b),
		e.CreatedAt.UTC().Format(auditTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY created_at, rowid`
	return r.query(ctx, query, string(entityType), entityID)
}

func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + auditColumns + ` FROM audit_log ORDER BY created_at DESC, rowid DESC LIMIT ?`
	return r.query(ctx, query, limit)
}

func (r *SQLiteAuditRepo) query(ctx context.Context, query string, args ...any) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var entityType, action, details, createdAt string
		if err := rows.Scan(&e.ID, &entityType, &e.EntityID, &action, &e.ActorID, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.EntityType = domain.EntityType(entityType)
		e.Action = domain.AuditAction(action)
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, fmt.Errorf("decoding audit details for %s: %w", e.ID, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing audit created_at: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return out, nil
}
