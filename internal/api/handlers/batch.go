package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/Harshitk-cp/tombench/internal/store"
	"go.uber.org/zap"
)

// MaxPoolPerSetting caps batches generated inside a request.
const MaxPoolPerSetting = 2000

type BatchHandler struct {
	batches   domain.BatchStore
	stories   domain.StoryStore
	qaSets    domain.QASetStore
	generator *service.GeneratorService
	qa        *service.QAService
	world     domain.WorldDefinition
	logger    *zap.Logger
}

func NewBatchHandler(
	batches domain.BatchStore,
	stories domain.StoryStore,
	qaSets domain.QASetStore,
	generator *service.GeneratorService,
	qa *service.QAService,
	world domain.WorldDefinition,
	logger *zap.Logger,
) *BatchHandler {
	return &BatchHandler{
		batches:   batches,
		stories:   stories,
		qaSets:    qaSets,
		generator: generator,
		qa:        qa,
		world:     world,
		logger:    logger,
	}
}

type createBatchRequest struct {
	Settings               []string      `json:"settings"`
	Sequences              []domain.Plan `json:"sequences,omitempty"`
	PoolPerSetting         int           `json:"pool_per_setting"`
	MinPool                int           `json:"min_pool"`
	SampleSize             int           `json:"sample_size"`
	MaxAttemptsPerSequence int           `json:"max_attempts_per_sequence,omitempty"`
	Seed                   uint64        `json:"seed,omitempty"`
}

func (req createBatchRequest) config() (config.BatchConfig, error) {
	cfg := config.DefaultBatch()
	cfg.Settings = nil
	for _, label := range req.Settings {
		s, err := domain.ParseSetting(label)
		if err != nil {
			return cfg, err
		}
		cfg.Settings = append(cfg.Settings, s)
	}
	if len(req.Sequences) > 0 {
		cfg.Sequences = req.Sequences
	}
	cfg.PoolPerSetting = req.PoolPerSetting
	cfg.MinPool = req.MinPool
	cfg.SampleSize = req.SampleSize
	cfg.MaxAttemptsPerSequence = DefaultMaxAttempts
	if req.MaxAttemptsPerSequence > 0 {
		cfg.MaxAttemptsPerSequence = req.MaxAttemptsPerSequence
	}
	cfg.Seed = req.Seed

	if cfg.PoolPerSetting > MaxPoolPerSetting {
		return cfg, fmt.Errorf("pool_per_setting must not exceed %d", MaxPoolPerSetting)
	}
	return cfg, cfg.Validate()
}

type createBatchResponse struct {
	Batch    *domain.Batch             `json:"batch"`
	QACounts map[domain.QACategory]int `json:"qa_counts"`
}

// Create generates a batch, stores its stories and builds a QA set for each.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}

	var req createBatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := req.config()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	batch, stories, err := h.generator.GenerateBatch(ctx, h.world, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate batch")
		return
	}
	batch.TenantID = tenant.ID
	for i := range stories {
		stories[i].TenantID = tenant.ID
	}

	// QA sampling continues the batch's random stream from a derived seed.
	rng, _ := service.NewRand(batch.Seed + 1)
	sets, counts, err := h.qa.BuildAll(ctx, rng, stories)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build qa sets")
		return
	}

	if err := h.batches.Create(ctx, batch); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store batch")
		return
	}
	if err := h.stories.CreateMany(ctx, stories); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store stories")
		return
	}
	for i := range sets {
		if err := h.qaSets.Upsert(ctx, &sets[i]); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store qa sets")
			return
		}
	}

	h.logger.Info("batch stored",
		zap.String("batch_id", batch.ID.String()),
		zap.String("tenant_id", tenant.ID.String()),
		zap.Int("stories", len(stories)))
	writeJSON(w, http.StatusCreated, createBatchResponse{Batch: batch, QACounts: counts})
}

func (h *BatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	batch, err := h.batches.GetByID(r.Context(), id, tenant.ID)
	if err != nil {
		writeBatchLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *BatchHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	if _, err := h.batches.GetByID(r.Context(), id, tenant.ID); err != nil {
		writeBatchLookupError(w, err)
		return
	}

	stories, err := h.stories.ListByBatch(r.Context(), id, tenant.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stories")
		return
	}
	if stories == nil {
		stories = []domain.Story{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stories": stories, "count": len(stories)})
}

func writeBatchLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to get batch")
}
