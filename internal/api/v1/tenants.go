package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/keyper-app/keyper/internal/access"
	"github.com/keyper-app/keyper/internal/domain"
	"github.com/keyper-app/keyper/internal/server/middleware"
)

type CreateTenantInput struct {
	Body struct {
		UserID           uuid.UUID `json:"user_id" doc:"User account this profile belongs to"`
		EmergencyContact string    `json:"emergency_contact,omitempty" doc:"Emergency contact"`
		EmploymentInfo   string    `json:"employment_info,omitempty" doc:"Employment details"`
		Notes            string    `json:"notes,omitempty" doc:"Staff-only notes"`
	}
}

type TenantOutput struct {
	Body *domain.Tenant
}

type GetTenantInput struct {
	ID uuid.UUID `path:"id" doc:"Tenant profile ID"`
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type UpdateTenantInput struct {
	ID   uuid.UUID `path:"id" doc:"Tenant profile ID"`
	Body struct {
		EmergencyContact string `json:"emergency_contact,omitempty" doc:"Emergency contact"`
		EmploymentInfo   string `json:"employment_info,omitempty" doc:"Employment details"`
		Notes            string `json:"notes,omitempty" doc:"Staff-only notes"`
	}
}

// filterTenant redacts staff-only fields for the lease-holder's own view.
func filterTenant(actor domain.Actor, t *domain.Tenant) *domain.Tenant {
	if actor.Role.ManagementTier() || actor.Role == domain.RoleStaff {
		return t
	}
	out := *t
	out.Notes = ""
	return &out
}

func RegisterTenantRoutes(api huma.API, store DataStore, registry *access.Registry) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants",
		Summary:     "Create a tenant profile",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CreateTenantInput) (*TenantOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceTenant, access.ActionCreate, nil) {
			return nil, huma.Error403Forbidden("role may not create tenant profiles")
		}

		if _, err := store.Users().GetByID(ctx, actor.ClientID, input.Body.UserID); err != nil {
			return nil, huma.Error404NotFound("user not found")
		}

		now := time.Now()
		t := &domain.Tenant{
			ID:               uuid.New(),
			ClientID:         actor.ClientID,
			UserID:           input.Body.UserID,
			EmergencyContact: input.Body.EmergencyContact,
			EmploymentInfo:   input.Body.EmploymentInfo,
			Notes:            input.Body.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := store.Tenants().Create(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to create tenant profile", err)
		}

		return &TenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-own-tenant-profile",
		Method:      http.MethodGet,
		Path:        "/tenants/me",
		Summary:     "Get the caller's own tenant profile",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*TenantOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		t, err := store.Tenants().GetByUserID(ctx, actor.ClientID, actor.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant profile not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant profile", err)
		}

		return &TenantOutput{Body: filterTenant(actor, t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{id}",
		Summary:     "Get a tenant profile by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*TenantOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		t, err := store.Tenants().GetByID(ctx, actor.ClientID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant profile not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant profile", err)
		}

		if !registry.CanAccess(actor, access.ResourceTenant, access.ActionRead, t) {
			return nil, huma.Error404NotFound("tenant profile not found")
		}

		return &TenantOutput{Body: filterTenant(actor, t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List tenant profiles",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*ListTenantsOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceTenant, access.ActionList, nil) {
			return nil, huma.Error403Forbidden("role may not list tenant profiles")
		}

		tenants, err := store.Tenants().List(ctx, actor.ClientID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tenant profiles", err)
		}

		return &ListTenantsOutput{Body: tenants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPut,
		Path:        "/tenants/{id}",
		Summary:     "Update a tenant profile",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*TenantOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		existing, err := store.Tenants().GetByID(ctx, actor.ClientID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant profile not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant profile", err)
		}

		if !registry.CanAccess(actor, access.ResourceTenant, access.ActionUpdate, existing) {
			return nil, huma.Error403Forbidden("role may not update this tenant profile")
		}

		if input.Body.EmergencyContact != "" {
			existing.EmergencyContact = input.Body.EmergencyContact
		}
		if input.Body.EmploymentInfo != "" {
			existing.EmploymentInfo = input.Body.EmploymentInfo
		}
		if input.Body.Notes != "" && actor.Role != domain.RoleTenant {
			existing.Notes = input.Body.Notes
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tenants().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tenant profile", err)
		}

		return &TenantOutput{Body: filterTenant(actor, existing)}, nil
	})
}
