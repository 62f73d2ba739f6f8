package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is a property-management organization — the multi-tenancy isolation
// boundary. Not to be confused with the lease-holder Tenant.
type Client struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Settings  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetBySlug(ctx context.Context, slug string) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context) ([]*Client, error)
}
