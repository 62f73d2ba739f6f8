package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keyper-app/keyper/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	clients    *ClientRepo
	users      *UserRepo
	properties *PropertyRepo
	tenants    *TenantRepo
	leases     *LeaseRepo
	audit      *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		clients:    NewClientRepo(pool),
		users:      NewUserRepo(pool),
		properties: NewPropertyRepo(pool),
		tenants:    NewTenantRepo(pool),
		leases:     NewLeaseRepo(pool),
		audit:      NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Clients() domain.ClientRepository      { return s.clients }
func (s *Store) Users() domain.UserRepository          { return s.users }
func (s *Store) Properties() domain.PropertyRepository { return s.properties }
func (s *Store) Tenants() domain.TenantRepository      { return s.tenants }
func (s *Store) Leases() domain.LeaseRepository        { return s.leases }

// UserProfiles exposes the concrete user repo for collaborators that need
// more than the repository interface, such as display-name lookup.
func (s *Store) UserProfiles() *UserRepo { return s.users }
func (s *Store) Audit() domain.AuditRepository         { return s.audit }
