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

// LeaseRepo persists leases. Document-shaped sub-structures (fees, duration,
// signatures, documents, pending_changes) live in JSONB columns; pgx handles
// the JSON round trip via the struct json tags. Soft-deleted rows are
// invisible to every query.
type LeaseRepo struct {
	pool *pgxpool.Pool
}

func NewLeaseRepo(pool *pgxpool.Pool) *LeaseRepo {
	return &LeaseRepo{pool: pool}
}

const leaseColumns = `id, client_id, status, approval_status, tenant_user_id, property_ref,
	fees, duration, lease_type, signing_method, e_signature, signatures, documents,
	signed_date, notes, renewal_options, legal_terms, utilities, termination_reason,
	pending_changes, created_by, created_at, updated_at`

func (r *LeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leases (`+leaseColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		l.ID, l.ClientID, l.Status, l.ApprovalStatus, l.TenantUserID, l.Property,
		l.Fees, l.Duration, l.LeaseType, l.SigningMethod, l.ESignature, l.Signatures, l.Documents,
		l.SignedDate, l.Notes, l.RenewalOptions, l.LegalTerms, l.Utilities, l.TerminationReason,
		l.PendingChanges, l.CreatedBy, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.Create: %w", err)
	}

	return nil
}

func (r *LeaseRepo) GetByID(ctx context.Context, clientID, id uuid.UUID) (*domain.Lease, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+leaseColumns+`
		 FROM leases WHERE client_id = $1 AND id = $2 AND deleted_at IS NULL`,
		clientID, id,
	)

	l, err := scanLease(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("leaseRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.GetByID: %w", err)
	}

	return l, nil
}

func (r *LeaseRepo) ListByProperty(ctx context.Context, clientID, propertyID uuid.UUID) ([]*domain.Lease, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaseColumns+`
		 FROM leases
		 WHERE client_id = $1 AND (property_ref->>'property_id')::uuid = $2 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT 1000`,
		clientID, propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.ListByProperty: %w", err)
	}
	defer rows.Close()

	return scanLeases(rows, "leaseRepo.ListByProperty")
}

func (r *LeaseRepo) ListByTenantUser(ctx context.Context, clientID, tenantUserID uuid.UUID) ([]*domain.Lease, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leaseColumns+`
		 FROM leases
		 WHERE client_id = $1 AND tenant_user_id = $2 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT 1000`,
		clientID, tenantUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaseRepo.ListByTenantUser: %w", err)
	}
	defer rows.Close()

	return scanLeases(rows, "leaseRepo.ListByTenantUser")
}

func (r *LeaseRepo) Update(ctx context.Context, l *domain.Lease) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET status = $1, approval_status = $2, tenant_user_id = $3, property_ref = $4,
		        fees = $5, duration = $6, lease_type = $7, signing_method = $8, e_signature = $9,
		        signatures = $10, documents = $11, signed_date = $12, notes = $13,
		        renewal_options = $14, legal_terms = $15, utilities = $16, termination_reason = $17,
		        pending_changes = $18, updated_at = now()
		 WHERE client_id = $19 AND id = $20 AND deleted_at IS NULL`,
		l.Status, l.ApprovalStatus, l.TenantUserID, l.Property,
		l.Fees, l.Duration, l.LeaseType, l.SigningMethod, l.ESignature,
		l.Signatures, l.Documents, l.SignedDate, l.Notes,
		l.RenewalOptions, l.LegalTerms, l.Utilities, l.TerminationReason,
		l.PendingChanges, l.ClientID, l.ID,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("leaseRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks the lease deleted. Rows are never removed physically so
// the audit history stays intact.
func (r *LeaseRepo) SoftDelete(ctx context.Context, clientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leases SET deleted_at = now() WHERE client_id = $1 AND id = $2 AND deleted_at IS NULL`,
		clientID, id,
	)
	if err != nil {
		return fmt.Errorf("leaseRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("leaseRepo.SoftDelete: %w", domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*domain.Lease, error) {
	var l domain.Lease
	err := row.Scan(
		&l.ID, &l.ClientID, &l.Status, &l.ApprovalStatus, &l.TenantUserID, &l.Property,
		&l.Fees, &l.Duration, &l.LeaseType, &l.SigningMethod, &l.ESignature, &l.Signatures, &l.Documents,
		&l.SignedDate, &l.Notes, &l.RenewalOptions, &l.LegalTerms, &l.Utilities, &l.TerminationReason,
		&l.PendingChanges, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanLeases(rows pgx.Rows, caller string) ([]*domain.Lease, error) {
	var leases []*domain.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		leases = append(leases, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return leases, nil
}
