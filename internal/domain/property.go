package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Unit struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Bedrooms int     `json:"bedrooms"`
	Rent     float64 `json:"rent"`
	Occupied bool    `json:"occupied"`
}

type Property struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Name      string
	Address   string
	Units     []Unit
	ManagerID *uuid.UUID // assigned manager, nullable
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManagedBy reports whether the user is the assigned manager.
func (p *Property) ManagedBy(userID uuid.UUID) bool {
	return p.ManagerID != nil && *p.ManagerID == userID
}

type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, clientID, id uuid.UUID) (*Property, error)
	Update(ctx context.Context, p *Property) error
	List(ctx context.Context, clientID uuid.UUID) ([]*Property, error)
	Delete(ctx context.Context, clientID, id uuid.UUID) error
}
