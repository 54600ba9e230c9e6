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

type StoryStore struct {
	db *pgxpool.Pool
}

func NewStoryStore(db *pgxpool.Pool) *StoryStore {
	return &StoryStore{db: db}
}

const insertStory = `INSERT INTO stories (
	id, tenant_id, batch_id, instance_index, setting, has_false_belief, layout,
	initial_state, simulation_log, action_sequence, full_story, persistence
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at`

const selectStory = `SELECT id, tenant_id, batch_id, instance_index, setting, has_false_belief,
	layout, initial_state, simulation_log, action_sequence, full_story, persistence, created_at
FROM stories`

type storyColumns struct {
	layout, initialState, log, sequence, fullStory, persistence []byte
}

func marshalStory(st *domain.Story) (*storyColumns, error) {
	var (
		c   storyColumns
		err error
	)
	if c.layout, err = json.Marshal(st.Layout); err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	if c.initialState, err = json.Marshal(st.InitialState); err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if c.log, err = json.Marshal(st.SimulationLog); err != nil {
		return nil, fmt.Errorf("marshal simulation log: %w", err)
	}
	if c.sequence, err = json.Marshal(st.ActionSequence); err != nil {
		return nil, fmt.Errorf("marshal action sequence: %w", err)
	}
	if c.fullStory, err = json.Marshal(st.FullStory); err != nil {
		return nil, fmt.Errorf("marshal full story: %w", err)
	}
	if c.persistence, err = json.Marshal(st.FalseBeliefPersistence); err != nil {
		return nil, fmt.Errorf("marshal persistence: %w", err)
	}
	return &c, nil
}

func storyArgs(st *domain.Story, c *storyColumns) []any {
	return []any{
		st.ID, st.TenantID, st.BatchID, st.InstanceIndex, st.Setting, st.HasFalseBelief, c.layout,
		c.initialState, c.log, c.sequence, c.fullStory, c.persistence,
	}
}

func (s *StoryStore) Create(ctx context.Context, st *domain.Story) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	cols, err := marshalStory(st)
	if err != nil {
		return err
	}
	err = s.db.QueryRow(ctx, insertStory, storyArgs(st, cols)...).Scan(&st.CreatedAt)
	return mapConflict(err)
}

// CreateMany inserts all stories in one transaction.
func (s *StoryStore) CreateMany(ctx context.Context, stories []domain.Story) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range stories {
		st := &stories[i]
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		cols, err := marshalStory(st)
		if err != nil {
			return err
		}
		batch.Queue(insertStory, storyArgs(st, cols)...).QueryRow(func(row pgx.Row) error {
			return row.Scan(&st.CreatedAt)
		})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapConflict(err)
	}
	return tx.Commit(ctx)
}

func (s *StoryStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Story, error) {
	row := s.db.QueryRow(ctx, selectStory+` WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	st, err := scanStory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *StoryStore) ListByBatch(ctx context.Context, batchID uuid.UUID, tenantID uuid.UUID) ([]domain.Story, error) {
	rows, err := s.db.Query(ctx,
		selectStory+` WHERE batch_id = $1 AND tenant_id = $2 ORDER BY setting, instance_index`,
		batchID, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *st)
	}
	return stories, rows.Err()
}

func scanStory(row pgx.Row) (*domain.Story, error) {
	st := &domain.Story{}
	var c storyColumns
	err := row.Scan(
		&st.ID, &st.TenantID, &st.BatchID, &st.InstanceIndex, &st.Setting, &st.HasFalseBelief,
		&c.layout, &c.initialState, &c.log, &c.sequence, &c.fullStory, &c.persistence, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		data []byte
		dst  any
	}{
		{"layout", c.layout, &st.Layout},
		{"initial state", c.initialState, &st.InitialState},
		{"simulation log", c.log, &st.SimulationLog},
		{"action sequence", c.sequence, &st.ActionSequence},
		{"full story", c.fullStory, &st.FullStory},
		{"persistence", c.persistence, &st.FalseBeliefPersistence},
	}
	for _, f := range fields {
		if err := json.Unmarshal(f.data, f.dst); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", f.name, err)
		}
	}
	return st, nil
}
