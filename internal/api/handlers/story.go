package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/Harshitk-cp/tombench/internal/store"
)

// DefaultMaxAttempts bounds single-story generation requests.
const DefaultMaxAttempts = 20000

type StoryHandler struct {
	stories     domain.StoryStore
	generator   *service.GeneratorService
	world       domain.WorldDefinition
	maxAttempts int
}

func NewStoryHandler(stories domain.StoryStore, generator *service.GeneratorService, world domain.WorldDefinition) *StoryHandler {
	return &StoryHandler{
		stories:     stories,
		generator:   generator,
		world:       world,
		maxAttempts: DefaultMaxAttempts,
	}
}

type createStoryRequest struct {
	Setting  string      `json:"setting"`
	Sequence domain.Plan `json:"sequence,omitempty"`
	Seed     uint64      `json:"seed,omitempty"`
}

type createStoryResponse struct {
	Story *domain.Story     `json:"story"`
	Seed  uint64            `json:"seed"`
	Yield domain.YieldStats `json:"yield"`
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}

	var req createStoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	setting, err := domain.ParseSetting(req.Setting)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, k := range req.Sequence {
		if !k.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid action kind in sequence: "+string(k))
			return
		}
	}

	rng, seed := service.NewRand(req.Seed)
	plan := req.Sequence
	if len(plan) == 0 {
		plans := domain.DefaultPlans()
		plan = plans[rng.IntN(len(plans))]
	}

	story, stats, err := h.generator.GenerateOne(r.Context(), rng, h.world, setting, plan, h.maxAttempts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCatalogTooSmall), errors.Is(err, service.ErrNoStructure):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAttemptsExhausted):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to generate story")
		}
		return
	}

	story.TenantID = tenant.ID
	story.InstanceIndex = 1
	if err := h.stories.Create(r.Context(), story); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store story")
		return
	}

	writeJSON(w, http.StatusCreated, createStoryResponse{Story: story, Seed: seed, Yield: stats})
}

func (h *StoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	story, err := h.stories.GetByID(r.Context(), id, tenant.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "story not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get story")
		return
	}
	writeJSON(w, http.StatusOK, story)
}
