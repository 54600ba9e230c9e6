package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectTenant = `SELECT id, name, api_key_hash, created_at, updated_at FROM tenants`

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

// Create inserts t and fills in its generated ID and timestamps. A reused key
// hash yields ErrConflict.
func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, api_key_hash) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.APIKeyHash)
	return mapConflict(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (s *TenantStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.Tenant, error) {
	return scanTenant(s.db.QueryRow(ctx, selectTenant+` WHERE api_key_hash = $1`, apiKeyHash))
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.APIKeyHash, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
