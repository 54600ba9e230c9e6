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

type QASetStore struct {
	db *pgxpool.Pool
}

func NewQASetStore(db *pgxpool.Pool) *QASetStore {
	return &QASetStore{db: db}
}

// Upsert stores q as the QA set of its story, replacing any earlier one.
func (s *QASetStore) Upsert(ctx context.Context, q *domain.QASet) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	fullStory, err := json.Marshal(q.FullStory)
	if err != nil {
		return fmt.Errorf("marshal full story: %w", err)
	}
	pairs, err := json.Marshal(q.Pairs)
	if err != nil {
		return fmt.Errorf("marshal pairs: %w", err)
	}
	probes, err := json.Marshal(q.Probes)
	if err != nil {
		return fmt.Errorf("marshal probes: %w", err)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO qa_sets (id, story_id, instance_index, setting, full_story, pairs, probes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (story_id) DO UPDATE SET
		   pairs = EXCLUDED.pairs,
		   probes = EXCLUDED.probes,
		   full_story = EXCLUDED.full_story,
		   created_at = NOW()
		 RETURNING id, created_at`,
		q.ID, q.StoryID, q.InstanceIndex, q.Setting, fullStory, pairs, probes,
	).Scan(&q.ID, &q.CreatedAt)
}

const selectQASet = `SELECT q.id, q.story_id, q.instance_index, q.setting, q.full_story, q.pairs, q.probes, q.created_at
FROM qa_sets q JOIN stories s ON s.id = q.story_id`

func (s *QASetStore) GetByStoryID(ctx context.Context, storyID uuid.UUID, tenantID uuid.UUID) (*domain.QASet, error) {
	q, err := scanQASet(s.db.QueryRow(ctx,
		selectQASet+` WHERE q.story_id = $1 AND s.tenant_id = $2`, storyID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QASetStore) ListByBatch(ctx context.Context, batchID uuid.UUID, tenantID uuid.UUID) ([]domain.QASet, error) {
	rows, err := s.db.Query(ctx,
		selectQASet+` WHERE s.batch_id = $1 AND s.tenant_id = $2 ORDER BY q.setting, q.instance_index`,
		batchID, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []domain.QASet
	for rows.Next() {
		q, err := scanQASet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *q)
	}
	return sets, rows.Err()
}

func scanQASet(row pgx.Row) (*domain.QASet, error) {
	q := &domain.QASet{}
	var fullStory, pairs, probes []byte
	err := row.Scan(&q.ID, &q.StoryID, &q.InstanceIndex, &q.Setting, &fullStory, &pairs, &probes, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fullStory, &q.FullStory); err != nil {
		return nil, fmt.Errorf("unmarshal full story: %w", err)
	}
	if err := json.Unmarshal(pairs, &q.Pairs); err != nil {
		return nil, fmt.Errorf("unmarshal pairs: %w", err)
	}
	if err := json.Unmarshal(probes, &q.Probes); err != nil {
		return nil, fmt.Errorf("unmarshal probes: %w", err)
	}
	return q, nil
}
