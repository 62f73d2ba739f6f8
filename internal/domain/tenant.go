package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is a lease-holder profile: the renter record attached to a user
// account. The multi-tenancy boundary is Client, not Tenant.
type Tenant struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	UserID           uuid.UUID
	EmergencyContact string
	EmploymentInfo   string
	Notes            string // staff-only
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, clientID, id uuid.UUID) (*Tenant, error)
	GetByUserID(ctx context.Context, clientID, userID uuid.UUID) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context, clientID uuid.UUID) ([]*Tenant, error)
}
