package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	ActorType  string // "user", "system"
	ActorID    string
	Action     string
	Resource   string // "lease", "property", etc.
	ResourceID uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*AuditEntry, error)
	ListByResource(ctx context.Context, clientID uuid.UUID, resource string, resourceID uuid.UUID) ([]*AuditEntry, error)
}
