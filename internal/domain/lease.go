package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusDraft            LeaseStatus = "DRAFT"
	LeaseStatusPendingSignature LeaseStatus = "PENDING_SIGNATURE"
	LeaseStatusActive           LeaseStatus = "ACTIVE"
	LeaseStatusTerminated       LeaseStatus = "TERMINATED"
	LeaseStatusExpired          LeaseStatus = "EXPIRED"
	LeaseStatusCancelled        LeaseStatus = "CANCELLED"
)

// Terminal reports whether the status has no outgoing transitions.
func (s LeaseStatus) Terminal() bool {
	switch s {
	case LeaseStatusTerminated, LeaseStatusExpired, LeaseStatusCancelled:
		return true
	default:
		return false
	}
}

type ApprovalStatus string

const (
	ApprovalStatusDraft    ApprovalStatus = "draft"
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

type SigningMethod string

const (
	SigningMethodManual     SigningMethod = "manual"
	SigningMethodElectronic SigningMethod = "electronic"
	SigningMethodPending    SigningMethod = "pending"
)

type ESignatureStatus string

const (
	ESignatureStatusSent   ESignatureStatus = "sent"
	ESignatureStatusSigned ESignatureStatus = "signed"
)

// PropertyRef links a lease to a property and, optionally, a unit.
type PropertyRef struct {
	PropertyID uuid.UUID `json:"property_id"`
	UnitID     string    `json:"unit_id,omitempty"`
}

// Fees holds the financial terms of a lease.
type Fees struct {
	MonthlyRent float64 `json:"monthly_rent"`
	Deposit     float64 `json:"deposit"`
	Currency    string  `json:"currency"`
}

// Duration holds the contractual dates of a lease.
type Duration struct {
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	MoveInDate      *time.Time `json:"move_in_date,omitempty"`
	MoveOutDate     *time.Time `json:"move_out_date,omitempty"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`
}

// Signature is a per-signer record on a lease.
type Signature struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     Role      `json:"role"`
	SignedAt time.Time `json:"signed_at"`
}

// ESignature tracks the electronic signing provider state.
type ESignature struct {
	Provider string           `json:"provider"`
	Status   ESignatureStatus `json:"status"`
}

// Document is a file attached to a lease.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PendingChanges is the deferred, unapplied change set awaiting management
// approval. At most one envelope exists per lease at a time, and it is
// applied all-or-nothing.
type PendingChanges struct {
	Changes     map[string]any `json:"changes"`
	ProposedBy  uuid.UUID      `json:"proposed_by"`
	ProposedAt  time.Time      `json:"proposed_at"`
	DisplayName string         `json:"display_name,omitempty"`
}

// Lease is the aggregate under governance. ClientID is the isolation key:
// every query and authorization decision is scoped by it.
type Lease struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"`
	Status            LeaseStatus     `json:"status"`
	ApprovalStatus    ApprovalStatus  `json:"approval_status"`
	TenantUserID      uuid.UUID       `json:"tenant_user_id"`
	Property          PropertyRef     `json:"property"`
	Fees              Fees            `json:"fees"`
	Duration          Duration        `json:"duration"`
	LeaseType         string          `json:"lease_type"`
	SigningMethod     SigningMethod   `json:"signing_method"`
	ESignature        *ESignature     `json:"e_signature,omitempty"`
	Signatures        []Signature     `json:"signatures,omitempty"`
	Documents         []Document      `json:"documents,omitempty"`
	SignedDate        *time.Time      `json:"signed_date,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	RenewalOptions    string          `json:"renewal_options,omitempty"`
	LegalTerms        string          `json:"legal_terms,omitempty"`
	Utilities         []string        `json:"utilities,omitempty"`
	TerminationReason string          `json:"termination_reason,omitempty"`
	PendingChanges    *PendingChanges `json:"pending_changes,omitempty"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

// leaseTransitions is the full status transition table. Terminal statuses
// have no entry.
var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusDraft:            {LeaseStatusPendingSignature, LeaseStatusActive, LeaseStatusCancelled},
	LeaseStatusPendingSignature: {LeaseStatusActive, LeaseStatusCancelled},
	LeaseStatusActive:           {LeaseStatusTerminated, LeaseStatusExpired},
}

// TransitionError reports a disallowed lease status transition. It lists the
// transitions actually allowed from the source status.
type TransitionError struct {
	From    LeaseStatus
	To      LeaseStatus
	Allowed []LeaseStatus
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition lease from %s to %s. Allowed: none (terminal state)", e.From, e.To)
	}
	targets := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		targets[i] = string(s)
	}
	return fmt.Sprintf("cannot transition lease from %s to %s. Allowed: %s", e.From, e.To, strings.Join(targets, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrValidation }

// ValidateTransition checks the status transition table. A self-transition
// (from == to) is always a permitted no-op.
func ValidateTransition(from, to LeaseStatus) error {
	if from == to {
		return nil
	}
	allowed := leaseTransitions[from]
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to, Allowed: allowed}
}

// ActivationReason identifies the specific precondition a lease fails before
// it may enter ACTIVE status.
type ActivationReason string

const (
	ActivationNotApproved            ActivationReason = "approval_status is not approved"
	ActivationNoDocuments            ActivationReason = "lease has no documents attached"
	ActivationNoSignedDate           ActivationReason = "signed date is missing"
	ActivationSigningMethodUnset     ActivationReason = "signing method is still pending"
	ActivationESignatureIncomplete   ActivationReason = "electronic signature is not completed"
	ActivationTenantSignatureMissing ActivationReason = "no signature from the lease-holding tenant"
)

// ActivationError reports the first activation precondition a lease fails.
type ActivationError struct {
	Reason ActivationReason
}

func (e *ActivationError) Error() string {
	return "lease cannot be activated: " + string(e.Reason)
}

func (e *ActivationError) Unwrap() error { return ErrValidation }

// CanActivate checks the activation preconditions for a transition into
// ACTIVE. The same checks hold as a standing invariant on any ACTIVE lease.
func (l *Lease) CanActivate() error {
	if l.ApprovalStatus != ApprovalStatusApproved {
		return &ActivationError{Reason: ActivationNotApproved}
	}
	if len(l.Documents) == 0 {
		return &ActivationError{Reason: ActivationNoDocuments}
	}
	if l.SignedDate == nil {
		return &ActivationError{Reason: ActivationNoSignedDate}
	}
	if l.SigningMethod == SigningMethodPending {
		return &ActivationError{Reason: ActivationSigningMethodUnset}
	}
	if l.SigningMethod == SigningMethodElectronic {
		if l.ESignature == nil || l.ESignature.Status != ESignatureStatusSigned {
			return &ActivationError{Reason: ActivationESignatureIncomplete}
		}
	}
	for _, sig := range l.Signatures {
		if sig.Role == RoleTenant && sig.UserID == l.TenantUserID {
			return nil
		}
	}
	return &ActivationError{Reason: ActivationTenantSignatureMissing}
}

// CanTerminate checks the termination preconditions.
func (l *Lease) CanTerminate() error {
	if l.Duration.TerminationDate == nil {
		return fmt.Errorf("lease cannot be terminated: termination date is missing: %w", ErrValidation)
	}
	if l.TerminationReason == "" {
		return fmt.Errorf("lease cannot be terminated: termination reason is missing: %w", ErrValidation)
	}
	return nil
}

type LeaseRepository interface {
	Create(ctx context.Context, l *Lease) error
	// GetByID returns the lease scoped to the client. Soft-deleted leases
	// and leases belonging to another client are both ErrNotFound.
	GetByID(ctx context.Context, clientID, id uuid.UUID) (*Lease, error)
	ListByProperty(ctx context.Context, clientID, propertyID uuid.UUID) ([]*Lease, error)
	ListByTenantUser(ctx context.Context, clientID, tenantUserID uuid.UUID) ([]*Lease, error)
	Update(ctx context.Context, l *Lease) error
	SoftDelete(ctx context.Context, clientID, id uuid.UUID) error
}
