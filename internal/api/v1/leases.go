package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keyper-app/keyper/internal/access"
	"github.com/keyper-app/keyper/internal/domain"
	"github.com/keyper-app/keyper/internal/lease"
	"github.com/keyper-app/keyper/internal/server/middleware"
)

type CreateLeaseInput struct {
	Body struct {
		TenantUserID uuid.UUID       `json:"tenant_user_id" doc:"Lease-holding tenant user ID"`
		PropertyID   uuid.UUID       `json:"property_id" doc:"Property ID"`
		UnitID       string          `json:"unit_id,omitempty" doc:"Optional unit ID"`
		Fees         domain.Fees     `json:"fees" doc:"Financial terms"`
		Duration     domain.Duration `json:"duration" doc:"Contractual dates"`
		LeaseType    string          `json:"lease_type,omitempty" doc:"Lease type"`
	}
}

type LeaseOutput struct {
	Body *domain.Lease
}

type GetLeaseInput struct {
	ID uuid.UUID `path:"id" doc:"Lease ID"`
}

type ListLeasesInput struct {
	PropertyID uuid.UUID `query:"property_id" doc:"Filter by property"`
}

type ListLeasesOutput struct {
	Body []*domain.Lease
}

type UpdateLeaseInput struct {
	ID   uuid.UUID `path:"id" doc:"Lease ID"`
	Body struct {
		Changes map[string]any `json:"changes" doc:"Partial change set, dotted or nested paths"`
	}
}

type UpdateLeaseOutput struct {
	Body *lease.UpdateResult
}

type ResolveLeaseChangesInput struct {
	ID   uuid.UUID `path:"id" doc:"Lease ID"`
	Body struct {
		Decision string `json:"decision" enum:"approve,reject" doc:"Approval decision"`
		Reason   string `json:"reason,omitempty" doc:"Rejection reason"`
	}
}

type DeleteLeaseInput struct {
	ID uuid.UUID `path:"id" doc:"Lease ID"`
}

type LeaseAuditInput struct {
	ID uuid.UUID `path:"id" doc:"Lease ID"`
}

type LeaseAuditOutput struct {
	Body []*domain.AuditEntry
}

// cachedLease returns the cache entry if the cache is wired and holds one.
// Cache errors degrade to a miss.
func cachedLease(ctx context.Context, cache LeaseCache, clientID, leaseID uuid.UUID) (*domain.Lease, bool) {
	if cache == nil {
		return nil, false
	}
	l, ok, err := cache.GetLease(ctx, clientID, leaseID)
	if err != nil {
		log.Warn().Err(err).Str("lease_id", leaseID.String()).Msg("lease cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return l, true
}

func RegisterLeaseRoutes(api huma.API, store DataStore, registry *access.Registry, governor LeaseGovernor, cache LeaseCache) {
	huma.Register(api, huma.Operation{
		OperationID: "create-lease",
		Method:      http.MethodPost,
		Path:        "/leases",
		Summary:     "Create a lease in DRAFT",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *CreateLeaseInput) (*LeaseOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceLease, access.ActionCreate, nil) {
			return nil, huma.Error403Forbidden("role may not create leases")
		}

		if _, err := store.Properties().GetByID(ctx, actor.ClientID, input.Body.PropertyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("property not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate property")
		}

		now := time.Now()
		l := &domain.Lease{
			ID:             uuid.New(),
			ClientID:       actor.ClientID,
			Status:         domain.LeaseStatusDraft,
			ApprovalStatus: domain.ApprovalStatusDraft,
			TenantUserID:   input.Body.TenantUserID,
			Property: domain.PropertyRef{
				PropertyID: input.Body.PropertyID,
				UnitID:     input.Body.UnitID,
			},
			Fees:          input.Body.Fees,
			Duration:      input.Body.Duration,
			LeaseType:     input.Body.LeaseType,
			SigningMethod: domain.SigningMethodPending,
			CreatedBy:     actor.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := store.Leases().Create(ctx, l); err != nil {
			return nil, huma.Error500InternalServerError("failed to create lease", err)
		}

		recordAudit(ctx, store, actor, "lease.create", l.ID, map[string]any{
			"property_id": l.Property.PropertyID.String(),
		})

		return &LeaseOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-lease",
		Method:      http.MethodGet,
		Path:        "/leases/{id}",
		Summary:     "Get a lease by ID",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *GetLeaseInput) (*LeaseOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		l, fromCache := cachedLease(ctx, cache, actor.ClientID, input.ID)
		if l == nil {
			var err error
			l, err = store.Leases().GetByID(ctx, actor.ClientID, input.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("lease not found")
				}
				return nil, huma.Error500InternalServerError("failed to get lease", err)
			}
		}

		if !registry.CanAccess(actor, access.ResourceLease, access.ActionRead, l) {
			// Same symptom as a missing lease so callers cannot probe.
			return nil, huma.Error404NotFound("lease not found")
		}

		if cache != nil && !fromCache {
			if err := cache.SetLease(ctx, l); err != nil {
				log.Warn().Err(err).Str("lease_id", input.ID.String()).Msg("lease cache set failed")
			}
		}

		return &LeaseOutput{Body: lease.FilterLeaseByRole(l, actor)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-leases",
		Method:      http.MethodGet,
		Path:        "/leases",
		Summary:     "List leases",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *ListLeasesInput) (*ListLeasesOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceLease, access.ActionList, nil) {
			return nil, huma.Error403Forbidden("role may not list leases")
		}

		// Tenants only ever see their own leases, whatever the filter.
		if actor.Role == domain.RoleTenant {
			leases, err := store.Leases().ListByTenantUser(ctx, actor.ClientID, actor.ID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list leases", err)
			}
			return &ListLeasesOutput{Body: filterAll(leases, actor)}, nil
		}

		if input.PropertyID == uuid.Nil {
			return nil, huma.Error422UnprocessableEntity("property_id is required")
		}

		leases, err := store.Leases().ListByProperty(ctx, actor.ClientID, input.PropertyID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list leases", err)
		}

		return &ListLeasesOutput{Body: filterAll(leases, actor)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-lease",
		Method:      http.MethodPatch,
		Path:        "/leases/{id}",
		Summary:     "Propose or apply a lease update",
		Description: "Runs the governance pipeline: low-impact changes apply directly, high-impact changes require management approval, immutable fields on an active lease are rejected.",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *UpdateLeaseInput) (*UpdateLeaseOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		result, err := governor.ProposeUpdate(ctx, actor, input.ID, input.Body.Changes)
		if err != nil {
			return nil, mapDomainError(err, "failed to update lease")
		}

		action := "lease.update"
		if result.RequiresApproval {
			action = "lease.propose"
		}
		recordAudit(ctx, store, actor, action, input.ID, map[string]any{
			"fields": lease.FieldPaths(input.Body.Changes),
		})

		return &UpdateLeaseOutput{Body: result}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-lease-changes",
		Method:      http.MethodPost,
		Path:        "/leases/{id}/pending-changes",
		Summary:     "Approve or reject pending lease changes",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *ResolveLeaseChangesInput) (*UpdateLeaseOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		result, err := governor.ResolvePendingChanges(ctx, actor, input.ID, lease.Decision(input.Body.Decision), input.Body.Reason)
		if err != nil {
			return nil, mapDomainError(err, "failed to resolve pending changes")
		}

		recordAudit(ctx, store, actor, "lease."+input.Body.Decision, input.ID, map[string]any{
			"reason": input.Body.Reason,
		})

		return &UpdateLeaseOutput{Body: result}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-lease",
		Method:      http.MethodDelete,
		Path:        "/leases/{id}",
		Summary:     "Soft-delete a lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *DeleteLeaseInput) (*struct{}, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		l, err := store.Leases().GetByID(ctx, actor.ClientID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}

		if !registry.CanAccess(actor, access.ResourceLease, access.ActionDelete, l) {
			return nil, huma.Error403Forbidden("role may not delete leases")
		}

		if err := store.Leases().SoftDelete(ctx, actor.ClientID, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete lease", err)
		}

		if cache != nil {
			if err := cache.Invalidate(ctx, actor.ClientID, input.ID); err != nil {
				log.Warn().Err(err).Str("lease_id", input.ID.String()).Msg("lease cache invalidate failed")
			}
		}

		recordAudit(ctx, store, actor, "lease.delete", input.ID, nil)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-lease-audit",
		Method:      http.MethodGet,
		Path:        "/leases/{id}/audit",
		Summary:     "List the audit trail of a lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *LeaseAuditInput) (*LeaseAuditOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !actor.Role.ManagementTier() {
			return nil, huma.Error403Forbidden("role may not read audit trails")
		}

		entries, err := store.Audit().ListByResource(ctx, actor.ClientID, "lease", input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit trail", err)
		}

		return &LeaseAuditOutput{Body: entries}, nil
	})
}

// recordAudit appends a lease audit entry. Best effort: a failed write is
// logged and never fails the request.
func recordAudit(ctx context.Context, store DataStore, actor domain.Actor, action string, leaseID uuid.UUID, details map[string]any) {
	if store.Audit() == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		ClientID:   actor.ClientID,
		ActorType:  "user",
		ActorID:    actor.ID.String(),
		Action:     action,
		Resource:   "lease",
		ResourceID: leaseID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := store.Audit().Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("api: audit record failed")
	}
}

func filterAll(leases []*domain.Lease, actor domain.Actor) []*domain.Lease {
	out := make([]*domain.Lease, len(leases))
	for i, l := range leases {
		out[i] = lease.FilterLeaseByRole(l, actor)
	}
	return out
}
