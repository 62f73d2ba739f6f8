package domain

import (
	"time"

	"github.com/google/uuid"
)

// Supporting resource types governed by the access registry. These are thin
// records: the surrounding CRUD plumbing (import, upload, delivery) lives
// outside the governance core.

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusExpired  InvitationStatus = "expired"
)

type Invitation struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Email     string
	Role      Role
	InvitedBy uuid.UUID
	Status    InvitationStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Vendor struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	UserID     uuid.UUID
	Company    string
	Services   []string
	Properties []uuid.UUID // properties the vendor is engaged on
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentStatus string

const (
	PaymentStatusDue      PaymentStatus = "due"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Payment struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	LeaseID      uuid.UUID
	TenantUserID uuid.UUID
	Amount       float64
	Currency     string
	Status       PaymentStatus
	DueDate      time.Time
	PaidAt       *time.Time
	CreatedAt    time.Time
}

type Notification struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	UserID    uuid.UUID // recipient
	Kind      string
	Subject   string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

type Report struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	CreatedBy uuid.UUID
	Kind      string
	Params    map[string]any
	CreatedAt time.Time
}
