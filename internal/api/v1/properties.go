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

type CreatePropertyInput struct {
	Body struct {
		Name      string        `json:"name" minLength:"1" maxLength:"255" doc:"Property name"`
		Address   string        `json:"address" minLength:"1" doc:"Street address"`
		Units     []domain.Unit `json:"units,omitempty" doc:"Units"`
		ManagerID *uuid.UUID    `json:"manager_id,omitempty" doc:"Assigned manager"`
	}
}

type PropertyOutput struct {
	Body *domain.Property
}

type GetPropertyInput struct {
	ID uuid.UUID `path:"id" doc:"Property ID"`
}

type ListPropertiesOutput struct {
	Body []*domain.Property
}

type UpdatePropertyInput struct {
	ID   uuid.UUID `path:"id" doc:"Property ID"`
	Body struct {
		Name      string        `json:"name,omitempty" maxLength:"255" doc:"Property name"`
		Address   string        `json:"address,omitempty" doc:"Street address"`
		Units     []domain.Unit `json:"units,omitempty" doc:"Units"`
		ManagerID *uuid.UUID    `json:"manager_id,omitempty" doc:"Assigned manager"`
	}
}

func RegisterPropertyRoutes(api huma.API, store DataStore, registry *access.Registry) {
	huma.Register(api, huma.Operation{
		OperationID: "create-property",
		Method:      http.MethodPost,
		Path:        "/properties",
		Summary:     "Create a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *CreatePropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceProperty, access.ActionCreate, nil) {
			return nil, huma.Error403Forbidden("role may not create properties")
		}

		now := time.Now()
		p := &domain.Property{
			ID:        uuid.New(),
			ClientID:  actor.ClientID,
			Name:      input.Body.Name,
			Address:   input.Body.Address,
			Units:     input.Body.Units,
			ManagerID: input.Body.ManagerID,
			CreatedBy: actor.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Properties().Create(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to create property", err)
		}

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-property",
		Method:      http.MethodGet,
		Path:        "/properties/{id}",
		Summary:     "Get a property by ID",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *GetPropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		p, err := store.Properties().GetByID(ctx, actor.ClientID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("property not found")
			}
			return nil, huma.Error500InternalServerError("failed to get property", err)
		}

		if !registry.CanAccess(actor, access.ResourceProperty, access.ActionRead, p) {
			return nil, huma.Error404NotFound("property not found")
		}

		return &PropertyOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-properties",
		Method:      http.MethodGet,
		Path:        "/properties",
		Summary:     "List properties",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, _ *struct{}) (*ListPropertiesOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		if !registry.CanAccess(actor, access.ResourceProperty, access.ActionList, nil) {
			return nil, huma.Error403Forbidden("role may not list properties")
		}

		properties, err := store.Properties().List(ctx, actor.ClientID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list properties", err)
		}

		return &ListPropertiesOutput{Body: properties}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-property",
		Method:      http.MethodPut,
		Path:        "/properties/{id}",
		Summary:     "Update a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *UpdatePropertyInput) (*PropertyOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing actor context")
		}

		existing, err := store.Properties().GetByID(ctx, actor.ClientID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("property not found")
			}
			return nil, huma.Error500InternalServerError("failed to get property", err)
		}

		if !registry.CanAccess(actor, access.ResourceProperty, access.ActionUpdate, existing) {
			return nil, huma.Error403Forbidden("role may not update this property")
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Address != "" {
			existing.Address = input.Body.Address
		}
		if input.Body.Units != nil {
			existing.Units = input.Body.Units
		}
		if input.Body.ManagerID != nil {
			existing.ManagerID = input.Body.ManagerID
		}
		existing.UpdatedAt = time.Now()

		if err := store.Properties().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update property", err)
		}

		return &PropertyOutput{Body: existing}, nil
	})
}
