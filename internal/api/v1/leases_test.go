package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyper-app/keyper/internal/access"
	v1 "github.com/keyper-app/keyper/internal/api/v1"
	"github.com/keyper-app/keyper/internal/domain"
	"github.com/keyper-app/keyper/internal/lease"
)

func registry() *access.Registry {
	return access.NewRegistry(access.DefaultStrategies())
}

// ---------------------------------------------------------------------------
// POST /leases
// ---------------------------------------------------------------------------

func TestCreateLease(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	propertyID := uuid.New()
	tenantUserID := uuid.New()

	body := map[string]any{
		"tenant_user_id": tenantUserID.String(),
		"property_id":    propertyID.String(),
		"unit_id":        "2A",
		"fees":           map[string]any{"monthly_rent": 950.0, "deposit": 1900.0, "currency": "USD"},
		"duration":       map[string]any{"start_date": "2026-10-01T00:00:00Z", "end_date": "2027-09-30T00:00:00Z"},
	}

	t.Run("manager creates a DRAFT lease", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			properties: &mockPropertyRepo{
				getByIDFunc: func(_ context.Context, gotClient, gotID uuid.UUID) (*domain.Property, error) {
					assert.Equal(t, clientID, gotClient)
					assert.Equal(t, propertyID, gotID)
					return &domain.Property{ID: propertyID, ClientID: clientID}, nil
				},
			},
			leases: &mockLeaseRepo{
				createFunc: func(_ context.Context, l *domain.Lease) error {
					assert.Equal(t, domain.LeaseStatusDraft, l.Status)
					assert.Equal(t, domain.SigningMethodPending, l.SigningMethod)
					assert.Equal(t, clientID, l.ClientID)
					return nil
				},
			},
		}
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleManager)
		resp := api.PostCtx(ctx, "/leases", body)

		require.Equal(t, http.StatusOK, resp.Code)

		var got domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, domain.LeaseStatusDraft, got.Status)
		assert.Equal(t, tenantUserID, got.TenantUserID)
		assert.Equal(t, "2A", got.Property.UnitID)
	})

	t.Run("staff forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.PostCtx(ctx, "/leases", body)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("unknown property rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			properties: &mockPropertyRepo{
				getByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Property, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, nil)

		resp := api.PostCtx(adminCtx(clientID), "/leases", body)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unauthenticated context forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), &mockGovernor{}, nil)

		resp := api.PostCtx(context.Background(), "/leases", body)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /leases/{id}
// ---------------------------------------------------------------------------

func TestGetLease(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	tenantUserID := uuid.New()
	leaseID := uuid.New()

	stored := &domain.Lease{
		ID:           leaseID,
		ClientID:     clientID,
		Status:       domain.LeaseStatusActive,
		TenantUserID: tenantUserID,
		Notes:        "internal note",
		CreatedBy:    uuid.New(),
		PendingChanges: &domain.PendingChanges{
			Changes: map[string]any{"notes": "x"}, ProposedBy: uuid.New(),
		},
	}

	newStore := func() *mockDataStore {
		return &mockDataStore{
			leases: &mockLeaseRepo{
				getByIDFunc: func(_ context.Context, gotClient, gotID uuid.UUID) (*domain.Lease, error) {
					if gotClient != clientID || gotID != leaseID {
						return nil, domain.ErrNotFound
					}
					cp := *stored
					return &cp, nil
				},
			},
		}
	}

	t.Run("staff sees the full lease", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(), registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.GetCtx(ctx, "/leases/"+leaseID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var got domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "internal note", got.Notes)
		assert.NotNil(t, got.PendingChanges)
	})

	t.Run("lease holder gets the redacted view", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(), registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, tenantUserID, domain.RoleTenant)
		resp := api.GetCtx(ctx, "/leases/"+leaseID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var got domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Empty(t, got.Notes)
		assert.Nil(t, got.PendingChanges)
		assert.Equal(t, uuid.Nil, got.CreatedBy)
	})

	t.Run("another tenant gets 404 not 403", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(), registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleTenant)
		resp := api.GetCtx(ctx, "/leases/"+leaseID.String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("other client organization gets 404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(), registry(), &mockGovernor{}, nil)

		resp := api.GetCtx(adminCtx(uuid.New()), "/leases/"+leaseID.String())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestGetLease_Cache(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()

	stored := &domain.Lease{
		ID:       leaseID,
		ClientID: clientID,
		Status:   domain.LeaseStatusActive,
		Notes:    "from repo",
	}

	t.Run("hit skips the repository", func(t *testing.T) {
		t.Parallel()

		cache := &mockLeaseCache{
			getFunc: func(_ context.Context, gotClient, gotID uuid.UUID) (*domain.Lease, bool, error) {
				assert.Equal(t, clientID, gotClient)
				assert.Equal(t, leaseID, gotID)
				cp := *stored
				cp.Notes = "from cache"
				return &cp, true, nil
			},
			setFunc: func(context.Context, *domain.Lease) error {
				t.Error("hit must not repopulate the cache")
				return nil
			},
		}
		store := &mockDataStore{
			leases: &mockLeaseRepo{
				getByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Lease, error) {
					t.Error("hit must not reach the repository")
					return nil, domain.ErrNotFound
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, cache)

		resp := api.GetCtx(adminCtx(clientID), "/leases/"+leaseID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var got domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "from cache", got.Notes)
	})

	t.Run("miss loads from the repository and populates", func(t *testing.T) {
		t.Parallel()

		var cachedLease *domain.Lease
		cache := &mockLeaseCache{
			setFunc: func(_ context.Context, l *domain.Lease) error {
				cachedLease = l
				return nil
			},
		}
		store := &mockDataStore{
			leases: &mockLeaseRepo{
				getByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Lease, error) {
					cp := *stored
					return &cp, nil
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, cache)

		resp := api.GetCtx(adminCtx(clientID), "/leases/"+leaseID.String())

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, cachedLease)
		assert.Equal(t, leaseID, cachedLease.ID)
	})

	t.Run("cache failure degrades to a repository read", func(t *testing.T) {
		t.Parallel()

		cache := &mockLeaseCache{
			getFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Lease, bool, error) {
				return nil, false, errors.New("redis down")
			},
			setFunc: func(context.Context, *domain.Lease) error {
				return errors.New("redis down")
			},
		}
		store := &mockDataStore{
			leases: &mockLeaseRepo{
				getByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Lease, error) {
					cp := *stored
					return &cp, nil
				},
			},
		}

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, cache)

		resp := api.GetCtx(adminCtx(clientID), "/leases/"+leaseID.String())
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /leases
// ---------------------------------------------------------------------------

func TestListLeases(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	propertyID := uuid.New()
	tenantUserID := uuid.New()

	t.Run("tenant listing ignores property filter", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			leases: &mockLeaseRepo{
				listByTenantUserFunc: func(_ context.Context, gotClient, gotUser uuid.UUID) ([]*domain.Lease, error) {
					assert.Equal(t, clientID, gotClient)
					assert.Equal(t, tenantUserID, gotUser)
					return []*domain.Lease{
						{ID: uuid.New(), ClientID: clientID, TenantUserID: tenantUserID, Notes: "hidden"},
					}, nil
				},
			},
		}
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, tenantUserID, domain.RoleTenant)
		resp := api.GetCtx(ctx, "/leases?property_id="+propertyID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var got []*domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Empty(t, got[0].Notes)
	})

	t.Run("staff listing requires property filter", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.GetCtx(ctx, "/leases")

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("staff listing by property", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			leases: &mockLeaseRepo{
				listByPropertyFunc: func(_ context.Context, gotClient, gotProperty uuid.UUID) ([]*domain.Lease, error) {
					assert.Equal(t, propertyID, gotProperty)
					return []*domain.Lease{
						{ID: uuid.New(), ClientID: gotClient},
						{ID: uuid.New(), ClientID: gotClient},
					}, nil
				},
			},
		}
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.GetCtx(ctx, "/leases?property_id="+propertyID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var got []*domain.Lease
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("vendor forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleVendor)
		resp := api.GetCtx(ctx, "/leases?property_id="+propertyID.String())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PATCH /leases/{id}
// ---------------------------------------------------------------------------

func TestUpdateLease(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()

	t.Run("passes changes through to the governor", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		gov := &mockGovernor{
			proposeFunc: func(_ context.Context, actor domain.Actor, gotID uuid.UUID, changes map[string]any) (*lease.UpdateResult, error) {
				assert.Equal(t, clientID, actor.ClientID)
				assert.Equal(t, leaseID, gotID)
				assert.Equal(t, map[string]any{"notes": "updated"}, changes)
				return &lease.UpdateResult{
					Lease:   &domain.Lease{ID: gotID, ClientID: clientID, Notes: "updated"},
					Applied: true,
				}, nil
			},
		}
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.PatchCtx(ctx, "/leases/"+leaseID.String(), map[string]any{
			"changes": map[string]any{"notes": "updated"},
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var got lease.UpdateResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Applied)
		assert.False(t, got.RequiresApproval)
	})

	t.Run("parked change reports requires_approval", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		gov := &mockGovernor{
			proposeFunc: func(_ context.Context, _ domain.Actor, gotID uuid.UUID, _ map[string]any) (*lease.UpdateResult, error) {
				return &lease.UpdateResult{
					Lease:            &domain.Lease{ID: gotID, ClientID: clientID},
					RequiresApproval: true,
				}, nil
			},
		}
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.PatchCtx(ctx, "/leases/"+leaseID.String(), map[string]any{
			"changes": map[string]any{"fees": map[string]any{"monthly_rent": 1200.0}},
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var got lease.UpdateResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.False(t, got.Applied)
		assert.True(t, got.RequiresApproval)
	})

	errorCases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("lease.ProposeUpdate: %w", domain.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("lease.ProposeUpdate: %w", domain.ErrForbidden), http.StatusForbidden},
		{"conflict", fmt.Errorf("lease.ProposeUpdate: %w", domain.ErrConflict), http.StatusConflict},
		{"blocked fields", fmt.Errorf("lease.ProposeUpdate: %w", &lease.BlockedFieldsError{Fields: []string{"fees.monthly_rent"}}), http.StatusUnprocessableEntity},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			gov := &mockGovernor{
				proposeFunc: func(context.Context, domain.Actor, uuid.UUID, map[string]any) (*lease.UpdateResult, error) {
					return nil, tt.err
				},
			}
			v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

			ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
			resp := api.PatchCtx(ctx, "/leases/"+leaseID.String(), map[string]any{
				"changes": map[string]any{"notes": "x"},
			})

			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

// ---------------------------------------------------------------------------
// POST /leases/{id}/pending-changes
// ---------------------------------------------------------------------------

func TestResolveLeaseChanges(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()

	t.Run("approve", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		gov := &mockGovernor{
			resolveFunc: func(_ context.Context, actor domain.Actor, gotID uuid.UUID, decision lease.Decision, reason string) (*lease.UpdateResult, error) {
				assert.Equal(t, leaseID, gotID)
				assert.Equal(t, lease.DecisionApprove, decision)
				assert.Empty(t, reason)
				return &lease.UpdateResult{
					Lease:   &domain.Lease{ID: gotID, ClientID: actor.ClientID},
					Applied: true,
				}, nil
			},
		}
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

		resp := api.PostCtx(adminCtx(clientID), "/leases/"+leaseID.String()+"/pending-changes", map[string]any{
			"decision": "approve",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var got lease.UpdateResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Applied)
	})

	t.Run("reject carries the reason", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		gov := &mockGovernor{
			resolveFunc: func(_ context.Context, _ domain.Actor, _ uuid.UUID, decision lease.Decision, reason string) (*lease.UpdateResult, error) {
				assert.Equal(t, lease.DecisionReject, decision)
				assert.Equal(t, "over budget", reason)
				return &lease.UpdateResult{Lease: &domain.Lease{ID: leaseID, ClientID: clientID}}, nil
			},
		}
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

		resp := api.PostCtx(adminCtx(clientID), "/leases/"+leaseID.String()+"/pending-changes", map[string]any{
			"decision": "reject",
			"reason":   "over budget",
		})

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("nothing to resolve conflicts", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		gov := &mockGovernor{
			resolveFunc: func(context.Context, domain.Actor, uuid.UUID, lease.Decision, string) (*lease.UpdateResult, error) {
				return nil, fmt.Errorf("lease.ResolvePendingChanges: %w", domain.ErrConflict)
			},
		}
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), gov, nil)

		resp := api.PostCtx(adminCtx(clientID), "/leases/"+leaseID.String()+"/pending-changes", map[string]any{
			"decision": "approve",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// DELETE /leases/{id}
// ---------------------------------------------------------------------------

func TestDeleteLease(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()

	newStore := func(deleted *bool) *mockDataStore {
		return &mockDataStore{
			leases: &mockLeaseRepo{
				getByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (*domain.Lease, error) {
					return &domain.Lease{ID: leaseID, ClientID: clientID}, nil
				},
				softDeleteFunc: func(context.Context, uuid.UUID, uuid.UUID) error {
					*deleted = true
					return nil
				},
			},
		}
	}

	t.Run("admin deletes", func(t *testing.T) {
		t.Parallel()

		deleted := false
		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(&deleted), registry(), &mockGovernor{}, nil)

		resp := api.DeleteCtx(adminCtx(clientID), "/leases/"+leaseID.String())
		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)
	})

	t.Run("manager forbidden", func(t *testing.T) {
		t.Parallel()

		deleted := false
		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(&deleted), registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleManager)
		resp := api.DeleteCtx(ctx, "/leases/"+leaseID.String())

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.False(t, deleted)
	})

	t.Run("delete invalidates the cache entry", func(t *testing.T) {
		t.Parallel()

		deleted := false
		cache := &mockLeaseCache{}
		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, newStore(&deleted), registry(), &mockGovernor{}, cache)

		resp := api.DeleteCtx(adminCtx(clientID), "/leases/"+leaseID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.Equal(t, []uuid.UUID{leaseID}, cache.invalidated)
	})
}

// ---------------------------------------------------------------------------
// GET /leases/{id}/audit
// ---------------------------------------------------------------------------

func TestLeaseAudit(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()

	t.Run("manager lists the trail", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audit: &mockAuditRepo{
				listByResource: func(_ context.Context, gotClient uuid.UUID, resource string, gotID uuid.UUID) ([]*domain.AuditEntry, error) {
					assert.Equal(t, clientID, gotClient)
					assert.Equal(t, "lease", resource)
					assert.Equal(t, leaseID, gotID)
					return []*domain.AuditEntry{
						{ID: uuid.New(), ClientID: clientID, Action: "lease.update", Resource: "lease", ResourceID: leaseID},
					}, nil
				},
			},
		}
		v1.RegisterLeaseRoutes(api, store, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleManager)
		resp := api.GetCtx(ctx, "/leases/"+leaseID.String()+"/audit")

		require.Equal(t, http.StatusOK, resp.Code)

		var got []*domain.AuditEntry
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "lease.update", got[0].Action)
	})

	t.Run("staff forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterLeaseRoutes(api, &mockDataStore{}, registry(), &mockGovernor{}, nil)

		ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
		resp := api.GetCtx(ctx, "/leases/"+leaseID.String()+"/audit")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// TestUpdateLease_RecordsAudit verifies the governance outcome is mirrored
// into the audit trail.
func TestUpdateLease_RecordsAudit(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	leaseID := uuid.New()
	audit := &mockAuditRepo{}

	_, api := humatest.New(t)
	gov := &mockGovernor{
		proposeFunc: func(_ context.Context, _ domain.Actor, gotID uuid.UUID, _ map[string]any) (*lease.UpdateResult, error) {
			return &lease.UpdateResult{
				Lease:            &domain.Lease{ID: gotID, ClientID: clientID},
				RequiresApproval: true,
			}, nil
		},
	}
	v1.RegisterLeaseRoutes(api, &mockDataStore{audit: audit}, registry(), gov, nil)

	ctx := actorCtx(clientID, uuid.New(), domain.RoleStaff)
	resp := api.PatchCtx(ctx, "/leases/"+leaseID.String(), map[string]any{
		"changes": map[string]any{"fees": map[string]any{"monthly_rent": 1200.0}},
	})

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, audit.recorded, 1)
	assert.Equal(t, "lease.propose", audit.recorded[0].Action)
	assert.Equal(t, leaseID, audit.recorded[0].ResourceID)
	assert.Equal(t, []string{"fees.monthly_rent"}, audit.recorded[0].Details["fields"])
}
