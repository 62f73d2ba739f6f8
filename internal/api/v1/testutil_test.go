package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/keyper-app/keyper/internal/domain"
	"github.com/keyper-app/keyper/internal/lease"
	"github.com/keyper-app/keyper/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject client/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func actorCtx(clientID, userID uuid.UUID, role domain.Role) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyClientID, clientID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func adminCtx(clientID uuid.UUID) context.Context {
	return actorCtx(clientID, uuid.New(), domain.RoleAdmin)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	clients    domain.ClientRepository
	users      domain.UserRepository
	properties domain.PropertyRepository
	tenants    domain.TenantRepository
	leases     domain.LeaseRepository
	audit      domain.AuditRepository
}

func (m *mockDataStore) Clients() domain.ClientRepository      { return m.clients }
func (m *mockDataStore) Users() domain.UserRepository          { return m.users }
func (m *mockDataStore) Properties() domain.PropertyRepository { return m.properties }
func (m *mockDataStore) Tenants() domain.TenantRepository      { return m.tenants }
func (m *mockDataStore) Leases() domain.LeaseRepository        { return m.leases }
func (m *mockDataStore) Audit() domain.AuditRepository         { return m.audit }

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	recorded       []*domain.AuditEntry
	listByResource func(ctx context.Context, clientID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error)
}

func (m *mockAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	m.recorded = append(m.recorded, entry)
	return nil
}

func (m *mockAuditRepo) ListByClient(context.Context, uuid.UUID, int, int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func (m *mockAuditRepo) ListByResource(ctx context.Context, clientID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error) {
	return m.listByResource(ctx, clientID, resource, resourceID)
}

// ---------------------------------------------------------------------------
// Mock LeaseRepository
// ---------------------------------------------------------------------------

type mockLeaseRepo struct {
	createFunc           func(ctx context.Context, l *domain.Lease) error
	getByIDFunc          func(ctx context.Context, clientID, id uuid.UUID) (*domain.Lease, error)
	listByPropertyFunc   func(ctx context.Context, clientID, propertyID uuid.UUID) ([]*domain.Lease, error)
	listByTenantUserFunc func(ctx context.Context, clientID, tenantUserID uuid.UUID) ([]*domain.Lease, error)
	updateFunc           func(ctx context.Context, l *domain.Lease) error
	softDeleteFunc       func(ctx context.Context, clientID, id uuid.UUID) error
}

func (m *mockLeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	return m.createFunc(ctx, l)
}

func (m *mockLeaseRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.Lease, error) {
	return m.getByIDFunc(ctx, clientID, id)
}

func (m *mockLeaseRepo) ListByProperty(ctx context.Context, clientID, propertyID uuid.UUID) ([]*domain.Lease, error) {
	return m.listByPropertyFunc(ctx, clientID, propertyID)
}

func (m *mockLeaseRepo) ListByTenantUser(ctx context.Context, clientID, tenantUserID uuid.UUID) ([]*domain.Lease, error) {
	return m.listByTenantUserFunc(ctx, clientID, tenantUserID)
}

func (m *mockLeaseRepo) Update(ctx context.Context, l *domain.Lease) error {
	return m.updateFunc(ctx, l)
}

func (m *mockLeaseRepo) SoftDelete(ctx context.Context, clientID, id uuid.UUID) error {
	return m.softDeleteFunc(ctx, clientID, id)
}

// ---------------------------------------------------------------------------
// Mock PropertyRepository
// ---------------------------------------------------------------------------

type mockPropertyRepo struct {
	createFunc  func(ctx context.Context, p *domain.Property) error
	getByIDFunc func(ctx context.Context, clientID, id uuid.UUID) (*domain.Property, error)
	updateFunc  func(ctx context.Context, p *domain.Property) error
	listFunc    func(ctx context.Context, clientID uuid.UUID) ([]*domain.Property, error)
	deleteFunc  func(ctx context.Context, clientID, id uuid.UUID) error
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return m.createFunc(ctx, p)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.Property, error) {
	return m.getByIDFunc(ctx, clientID, id)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPropertyRepo) List(ctx context.Context, clientID uuid.UUID) ([]*domain.Property, error) {
	return m.listFunc(ctx, clientID)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	return m.deleteFunc(ctx, clientID, id)
}

// ---------------------------------------------------------------------------
// Mock LeaseCache
// ---------------------------------------------------------------------------

type mockLeaseCache struct {
	getFunc     func(ctx context.Context, clientID, leaseID uuid.UUID) (*domain.Lease, bool, error)
	setFunc     func(ctx context.Context, l *domain.Lease) error
	invalidated []uuid.UUID
}

func (m *mockLeaseCache) GetLease(ctx context.Context, clientID, leaseID uuid.UUID) (*domain.Lease, bool, error) {
	if m.getFunc == nil {
		return nil, false, nil
	}
	return m.getFunc(ctx, clientID, leaseID)
}

func (m *mockLeaseCache) SetLease(ctx context.Context, l *domain.Lease) error {
	if m.setFunc == nil {
		return nil
	}
	return m.setFunc(ctx, l)
}

func (m *mockLeaseCache) Invalidate(_ context.Context, _, leaseID uuid.UUID) error {
	m.invalidated = append(m.invalidated, leaseID)
	return nil
}

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc      func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc     func(ctx context.Context, clientID, id uuid.UUID) (*domain.Tenant, error)
	getByUserIDFunc func(ctx context.Context, clientID, userID uuid.UUID) (*domain.Tenant, error)
	updateFunc      func(ctx context.Context, t *domain.Tenant) error
	listFunc        func(ctx context.Context, clientID uuid.UUID) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, clientID, id)
}

func (m *mockTenantRepo) GetByUserID(ctx context.Context, clientID, userID uuid.UUID) (*domain.Tenant, error) {
	return m.getByUserIDFunc(ctx, clientID, userID)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) List(ctx context.Context, clientID uuid.UUID) ([]*domain.Tenant, error) {
	return m.listFunc(ctx, clientID)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	getByIDFunc func(ctx context.Context, clientID, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserRepo) Create(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, clientID, id)
}

func (m *mockUserRepo) GetByEmail(context.Context, uuid.UUID, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Update(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) List(context.Context, uuid.UUID) ([]*domain.User, error) { return nil, nil }

// ---------------------------------------------------------------------------
// Mock LeaseGovernor
// ---------------------------------------------------------------------------

type mockGovernor struct {
	proposeFunc func(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, changes map[string]any) (*lease.UpdateResult, error)
	resolveFunc func(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, decision lease.Decision, reason string) (*lease.UpdateResult, error)
}

func (m *mockGovernor) ProposeUpdate(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, changes map[string]any) (*lease.UpdateResult, error) {
	return m.proposeFunc(ctx, actor, leaseID, changes)
}

func (m *mockGovernor) ResolvePendingChanges(ctx context.Context, actor domain.Actor, leaseID uuid.UUID, decision lease.Decision, reason string) (*lease.UpdateResult, error) {
	return m.resolveFunc(ctx, actor, leaseID, decision, reason)
}
