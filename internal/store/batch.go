package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BatchStore struct {
	db *pgxpool.Pool
}

func NewBatchStore(db *pgxpool.Pool) *BatchStore {
	return &BatchStore{db: db}
}

func (s *BatchStore) Create(ctx context.Context, b *domain.Batch) error {
	distribution, err := json.Marshal(b.Distribution)
	if err != nil {
		return fmt.Errorf("marshal distribution: %w", err)
	}
	yield, err := json.Marshal(b.Yield)
	if err != nil {
		return fmt.Errorf("marshal yield: %w", err)
	}
	skipped, err := json.Marshal(b.Skipped)
	if err != nil {
		return fmt.Errorf("marshal skipped: %w", err)
	}

	// Seeds are full uint64; the column stores the same bits as bigint.
	err = s.db.QueryRow(ctx,
		`INSERT INTO batches (id, tenant_id, seed, story_count, distribution, yield, skipped)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		b.ID, b.TenantID, int64(b.Seed), b.StoryCount, distribution, yield, skipped,
	).Scan(&b.CreatedAt)
	return mapConflict(err)
}

func (s *BatchStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Batch, error) {
	b := &domain.Batch{}
	var seed int64
	var distribution, yield, skipped []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, seed, story_count, distribution, yield, skipped, created_at
		 FROM batches WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&b.ID, &b.TenantID, &seed, &b.StoryCount, &distribution, &yield, &skipped, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Seed = uint64(seed)

	if err := json.Unmarshal(distribution, &b.Distribution); err != nil {
		return nil, fmt.Errorf("unmarshal distribution: %w", err)
	}
	if err := json.Unmarshal(yield, &b.Yield); err != nil {
		return nil, fmt.Errorf("unmarshal yield: %w", err)
	}
	if err := json.Unmarshal(skipped, &b.Skipped); err != nil {
		return nil, fmt.Errorf("unmarshal skipped: %w", err)
	}
	return b, nil
}
