package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	Email        string
	PasswordHash string // argon2id
	Name         string
	Role         Role
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, clientID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, clientID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, clientID uuid.UUID) ([]*User, error)
}
