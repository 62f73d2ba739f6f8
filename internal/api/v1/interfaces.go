package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/keyper-app/keyper/internal/domain"
	"github.com/keyper-app/keyper/internal/lease"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Clients() domain.ClientRepository
	Users() domain.UserRepository
	Properties() domain.PropertyRepository
	Tenants() domain.TenantRepository
	Leases() domain.LeaseRepository
	Audit() domain.AuditRepository
}

// LeaseCache is the read-through cache in front of the lease repository.
// *redis.Cache satisfies this interface. A nil cache disables caching.
type LeaseCache interface {
	GetLease(ctx context.Context, clientID, leaseID uuid.UUID) (*domain.Lease, bool, error)
	SetLease(ctx context.Context, l *domain.Lease) error
	Invalidate(ctx context.Context, clientID, leaseID uuid.UUID) error
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, clientID uuid.UUID, email, password, name string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, clientID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// LeaseGovernor abstracts the lease update governance pipeline for handler
// testing. *lease.Orchestrator satisfies this interface.
type LeaseGovernor interface {
	ProposeUpdate(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, changes map[string]any) (*lease.UpdateResult, error)
	ResolvePendingChanges(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, decision lease.Decision, reason string) (*lease.UpdateResult, error)
}
