package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Tenant, error)
}

type BatchStore interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Batch, error)
}

type StoryStore interface {
	Create(ctx context.Context, s *Story) error
	CreateMany(ctx context.Context, stories []Story) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Story, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID, tenantID uuid.UUID) ([]Story, error)
}

// QASetStore keeps at most one QA set per story; Upsert replaces it.
type QASetStore interface {
	Upsert(ctx context.Context, q *QASet) error
	GetByStoryID(ctx context.Context, storyID uuid.UUID, tenantID uuid.UUID) (*QASet, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID, tenantID uuid.UUID) ([]QASet, error)
}

type EvaluationStore interface {
	CreateMany(ctx context.Context, results []EvaluationResult) error
	ListByBatch(ctx context.Context, batchID uuid.UUID, model string) ([]EvaluationResult, error)
}

// Answerer is a language model that answers a question about a story.
type Answerer interface {
	Answer(ctx context.Context, system, prompt string) (string, error)
	Model() string
}
