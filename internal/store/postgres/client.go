package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keyper-app/keyper/internal/domain"
)

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients (id, name, slug, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Slug, c.Settings, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}

	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var c domain.Client

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, settings, created_at, updated_at FROM clients WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Settings, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) GetBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	var c domain.Client

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, settings, created_at, updated_at FROM clients WHERE slug = $1`,
		slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Settings, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetBySlug: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET name = $1, slug = $2, settings = $3, updated_at = now() WHERE id = $4`,
		c.Name, c.Slug, c.Settings, c.ID,
	)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clientRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, settings, created_at, updated_at FROM clients ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Settings, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("clientRepo.List: scan: %w", err)
		}
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clientRepo.List: rows: %w", err)
	}

	return clients, nil
}
