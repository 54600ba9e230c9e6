package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EvaluationStore struct {
	db *pgxpool.Pool
}

func NewEvaluationStore(db *pgxpool.Pool) *EvaluationStore {
	return &EvaluationStore{db: db}
}

var evaluationColumns = []string{
	"id", "batch_id", "instance_index", "qa_category", "setting",
	"question", "ground_truth_answer", "model", "llm_answer", "is_correct",
}

// CreateMany bulk-loads results with COPY.
func (s *EvaluationStore) CreateMany(ctx context.Context, results []domain.EvaluationResult) error {
	if len(results) == 0 {
		return nil
	}
	for i := range results {
		if results[i].ID == uuid.Nil {
			results[i].ID = uuid.New()
		}
	}
	_, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"evaluations"},
		evaluationColumns,
		pgx.CopyFromSlice(len(results), func(i int) ([]any, error) {
			r := results[i]
			return []any{
				r.ID, r.BatchID, r.InstanceIndex, string(r.Category), r.Setting,
				r.Question, r.GroundTruthAnswer, r.Model, r.LLMAnswer, r.IsCorrect,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy evaluations: %w", err)
	}
	return nil
}

// ListByBatch returns the results for a batch, optionally limited to one model.
func (s *EvaluationStore) ListByBatch(ctx context.Context, batchID uuid.UUID, model string) ([]domain.EvaluationResult, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, batch_id, instance_index, qa_category, setting, question,
		        ground_truth_answer, model, llm_answer, is_correct, created_at
		 FROM evaluations
		 WHERE batch_id = $1 AND ($2::text = '' OR model = $2)
		 ORDER BY setting, instance_index, qa_category`,
		batchID, model,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.EvaluationResult
	for rows.Next() {
		var r domain.EvaluationResult
		var category string
		if err := rows.Scan(
			&r.ID, &r.BatchID, &r.InstanceIndex, &category, &r.Setting, &r.Question,
			&r.GroundTruthAnswer, &r.Model, &r.LLMAnswer, &r.IsCorrect, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Category = domain.QACategory(category)
		results = append(results, r)
	}
	return results, rows.Err()
}
