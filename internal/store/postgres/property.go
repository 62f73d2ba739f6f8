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

type PropertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{pool: pool}
}

const propertyColumns = `id, client_id, name, address, units, manager_id, created_by, created_at, updated_at`

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO properties (`+propertyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ClientID, p.Name, p.Address, p.Units, p.ManagerID, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.Create: %w", err)
	}

	return nil
}

func (r *PropertyRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.Property, error) {
	var p domain.Property

	err := r.pool.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE client_id = $1 AND id = $2`,
		clientID, id,
	).Scan(&p.ID, &p.ClientID, &p.Name, &p.Address, &p.Units, &p.ManagerID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("propertyRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("propertyRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE properties SET name = $1, address = $2, units = $3, manager_id = $4, updated_at = now()
		 WHERE client_id = $5 AND id = $6`,
		p.Name, p.Address, p.Units, p.ManagerID, p.ClientID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PropertyRepo) List(ctx context.Context, clientID uuid.UUID) ([]*domain.Property, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE client_id = $1 ORDER BY name LIMIT 1000`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("propertyRepo.List: %w", err)
	}
	defer rows.Close()

	var properties []*domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Address, &p.Units, &p.ManagerID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("propertyRepo.List: scan: %w", err)
		}
		properties = append(properties, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("propertyRepo.List: rows: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepo) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM properties WHERE client_id = $1 AND id = $2`,
		clientID, id,
	)
	if err != nil {
		return fmt.Errorf("propertyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("propertyRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
