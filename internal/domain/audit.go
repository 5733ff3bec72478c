package domain

import "time"

// AuditEntry records one structural recalculation.
type AuditEntry struct {
	ID         string
	EntityType EntityType
	EntityID   string
	Action     AuditAction
	ActorID    string
	Details    map[string]any
	CreatedAt  time.Time
}
