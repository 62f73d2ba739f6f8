package lease

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keyper-app/keyper/internal/access"
	"github.com/keyper-app/keyper/internal/domain"
)

// Event names emitted by the orchestrator.
const (
	EventLeaseUpdated           = "lease.updated"
	EventLeaseApprovalRequested = "lease.approval_requested"
	EventLeaseApproved          = "lease.approved"
	EventLeaseRejected          = "lease.rejected"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Cache invalidates the per-client lease cache entry. Best effort: failures
// are logged, never surfaced.
type Cache interface {
	Invalidate(ctx context.Context, clientID, leaseID uuid.UUID) error
}

// EventSink receives fire-and-forget domain events.
type EventSink interface {
	Emit(ctx context.Context, event string, payload map[string]any) error
}

// ProfileLookup resolves a display name for the change-summary rendering.
// Never required for correctness of the governance decision.
type ProfileLookup interface {
	DisplayName(ctx context.Context, clientID, userID uuid.UUID) (string, error)
}

// BlockedFieldsError reports a change set touching immutable fields on an
// ACTIVE lease.
type BlockedFieldsError struct {
	Fields []string
}

func (e *BlockedFieldsError) Error() string {
	return "the following fields cannot be modified on an ACTIVE lease: " + strings.Join(e.Fields, ", ")
}

func (e *BlockedFieldsError) Unwrap() error { return domain.ErrValidation }

// UpdateResult is returned by both governance operations. Lease is already
// projected to the caller's role view.
type UpdateResult struct {
	Lease            *domain.Lease `json:"lease"`
	Applied          bool          `json:"applied"`
	RequiresApproval bool          `json:"requires_approval"`
}

// Orchestrator answers "can this actor apply this change to this lease right
// now, and if not, how should it be deferred or rejected". It composes the
// access registry, the field governance policy, and the lease state machine.
type Orchestrator struct {
	leases   domain.LeaseRepository
	registry *access.Registry
	cache    Cache
	events   EventSink
	profiles ProfileLookup
}

func NewOrchestrator(
	leases domain.LeaseRepository,
	registry *access.Registry,
	cache Cache,
	events EventSink,
	profiles ProfileLookup,
) *Orchestrator {
	return &Orchestrator{
		leases:   leases,
		registry: registry,
		cache:    cache,
		events:   events,
		profiles: profiles,
	}
}

// ProposeUpdate runs the full governance pipeline for a partial change set.
// Low-impact changes apply directly; high-impact changes apply directly for
// management-tier actors and are parked as a pending-changes envelope for
// staff; immutable-field violations reject before any write.
func (o *Orchestrator) ProposeUpdate(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, changes map[string]any) (*UpdateResult, error) {
	// Client isolation is enforced by the scoped load: a lease belonging to
	// another client is indistinguishable from one that does not exist.
	l, err := o.leases.GetByID(ctx, actor.ClientID, leaseID)
	if err != nil {
		return nil, fmt.Errorf("lease.ProposeUpdate: %w", err)
	}

	if !o.registry.CanAccess(actor, access.ResourceLease, access.ActionUpdate, l) {
		return nil, fmt.Errorf("lease.ProposeUpdate: role %s may not update this lease: %w", actor.Role, domain.ErrForbidden)
	}

	// Once signature is in flight or the lease is closed, only management
	// may touch it.
	if l.Status != domain.LeaseStatusDraft && l.Status != domain.LeaseStatusActive && !actor.Role.ManagementTier() {
		return nil, fmt.Errorf("lease.ProposeUpdate: lease in status %s may only be modified by management: %w", l.Status, domain.ErrForbidden)
	}

	changes = stripProtected(changes)
	paths := FieldPaths(changes)

	switch Classify(l.Status, paths) {
	case ClassificationBlocked:
		return nil, fmt.Errorf("lease.ProposeUpdate: %w", &BlockedFieldsError{Fields: BlockedPaths(l.Status, paths)})

	case ClassificationHighImpact:
		if !actor.Role.ManagementTier() {
			return o.parkPendingChanges(ctx, actor, l, changes)
		}
	}

	updated, err := o.applyAndPersist(ctx, l, changes)
	if err != nil {
		return nil, fmt.Errorf("lease.ProposeUpdate: %w", err)
	}

	o.emit(ctx, EventLeaseUpdated, map[string]any{
		"client_id":  l.ClientID.String(),
		"lease_id":   l.ID.String(),
		"changed_by": actor.ID.String(),
		"fields":     paths,
	})

	return &UpdateResult{Lease: FilterLeaseByRole(updated, actor), Applied: true}, nil
}

// ResolvePendingChanges approves or rejects the parked envelope. Approval
// re-enters the apply path with the stored change set and clears the
// envelope in the same logical write; rejection clears it without mutating
// the lease body.
func (o *Orchestrator) ResolvePendingChanges(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, decision Decision, reason string) (*UpdateResult, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, fmt.Errorf("lease.ResolvePendingChanges: unknown decision %q: %w", decision, domain.ErrValidation)
	}

	l, err := o.leases.GetByID(ctx, actor.ClientID, leaseID)
	if err != nil {
		return nil, fmt.Errorf("lease.ResolvePendingChanges: %w", err)
	}

	if !actor.Role.ManagementTier() || !o.registry.CanAccess(actor, access.ResourceLease, access.ActionApprove, l) {
		return nil, fmt.Errorf("lease.ResolvePendingChanges: role %s may not resolve pending changes: %w", actor.Role, domain.ErrForbidden)
	}

	if l.PendingChanges == nil {
		return nil, fmt.Errorf("lease.ResolvePendingChanges: no pending changes to resolve: %w", domain.ErrConflict)
	}

	envelope := l.PendingChanges
	l.PendingChanges = nil

	if decision == DecisionReject {
		l.UpdatedAt = time.Now()
		if err := o.leases.Update(ctx, l); err != nil {
			return nil, fmt.Errorf("lease.ResolvePendingChanges: %w", err)
		}
		o.invalidate(ctx, l)
		o.emit(ctx, EventLeaseRejected, map[string]any{
			"client_id":   l.ClientID.String(),
			"lease_id":    l.ID.String(),
			"rejected_by": actor.ID.String(),
			"proposed_by": envelope.ProposedBy.String(),
			"reason":      reason,
		})
		return &UpdateResult{Lease: FilterLeaseByRole(l, actor)}, nil
	}

	updated, err := o.applyAndPersist(ctx, l, envelope.Changes)
	if err != nil {
		return nil, fmt.Errorf("lease.ResolvePendingChanges: %w", err)
	}

	o.emit(ctx, EventLeaseApproved, map[string]any{
		"client_id":   l.ClientID.String(),
		"lease_id":    l.ID.String(),
		"approved_by": actor.ID.String(),
		"proposed_by": envelope.ProposedBy.String(),
		"fields":      FieldPaths(envelope.Changes),
	})

	return &UpdateResult{Lease: FilterLeaseByRole(updated, actor), Applied: true}, nil
}

// applyAndPersist sanitizes, merges, transition-validates, and writes the
// lease exactly once. Nothing is persisted when validation fails.
func (o *Orchestrator) applyAndPersist(ctx context.Context, l *domain.Lease, changes map[string]any) (*domain.Lease, error) {
	candidate, err := applyChanges(l, Sanitize(changes))
	if err != nil {
		return nil, err
	}

	if candidate.Status != l.Status {
		if err := domain.ValidateTransition(l.Status, candidate.Status); err != nil {
			return nil, err
		}
		switch candidate.Status {
		case domain.LeaseStatusActive:
			if err := candidate.CanActivate(); err != nil {
				return nil, err
			}
		case domain.LeaseStatusTerminated:
			if err := candidate.CanTerminate(); err != nil {
				return nil, err
			}
		}
	}

	candidate.UpdatedAt = time.Now()
	if err := o.leases.Update(ctx, candidate); err != nil {
		return nil, err
	}

	o.invalidate(ctx, candidate)

	return candidate, nil
}

// parkPendingChanges writes the envelope without touching the lease body. A
// second proposal over an unresolved envelope is a conflict.
func (o *Orchestrator) parkPendingChanges(ctx context.Context, actor domain.Actor, l *domain.Lease, changes map[string]any) (*UpdateResult, error) {
	if l.PendingChanges != nil {
		return nil, fmt.Errorf("lease.ProposeUpdate: a pending change set proposed by %s is awaiting approval: %w", l.PendingChanges.ProposedBy, domain.ErrConflict)
	}

	envelope := &domain.PendingChanges{
		Changes:    changes,
		ProposedBy: actor.ID,
		ProposedAt: time.Now(),
	}
	if o.profiles != nil {
		name, err := o.profiles.DisplayName(ctx, actor.ClientID, actor.ID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", actor.ID.String()).Msg("lease: display name lookup failed")
		} else {
			envelope.DisplayName = name
		}
	}

	l.PendingChanges = envelope
	l.UpdatedAt = time.Now()
	if err := o.leases.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("lease.ProposeUpdate: %w", err)
	}

	o.invalidate(ctx, l)
	o.emit(ctx, EventLeaseApprovalRequested, map[string]any{
		"client_id":   l.ClientID.String(),
		"lease_id":    l.ID.String(),
		"proposed_by": actor.ID.String(),
		"fields":      FieldPaths(changes),
	})

	return &UpdateResult{Lease: FilterLeaseByRole(l, actor), RequiresApproval: true}, nil
}

func (o *Orchestrator) invalidate(ctx context.Context, l *domain.Lease) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Invalidate(ctx, l.ClientID, l.ID); err != nil {
		log.Warn().Err(err).Str("lease_id", l.ID.String()).Msg("lease: cache invalidation failed")
	}
}

func (o *Orchestrator) emit(ctx context.Context, event string, payload map[string]any) {
	if o.events == nil {
		return
	}
	if err := o.events.Emit(ctx, event, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("lease: event emission failed")
	}
}
