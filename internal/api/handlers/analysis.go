package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/service"
)

type AnalysisHandler struct {
	batches domain.BatchStore
	stories domain.StoryStore
	results domain.EvaluationStore
	svc     *service.AnalysisService
}

func NewAnalysisHandler(batches domain.BatchStore, stories domain.StoryStore, results domain.EvaluationStore, svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{batches: batches, stories: stories, results: results, svc: svc}
}

type patternsResponse struct {
	Distribution domain.PatternDistribution `json:"distribution"`
	Accuracy     *domain.AccuracyReport     `json:"accuracy,omitempty"`
}

// Patterns reports the initial room patterns of a batch's stories for
// ?setting=, plus accuracy per pattern once the batch has been evaluated.
func (h *AnalysisHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	setting, err := domain.ParseSetting(r.URL.Query().Get("setting"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	if _, err := h.batches.GetByID(ctx, id, tenant.ID); err != nil {
		writeBatchLookupError(w, err)
		return
	}

	stories, err := h.stories.ListByBatch(ctx, id, tenant.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stories")
		return
	}
	resp := patternsResponse{Distribution: h.svc.PatternDistribution(stories, setting)}

	results, err := h.results.ListByBatch(ctx, id, r.URL.Query().Get("model"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if len(results) > 0 {
		report := h.svc.PatternAccuracy(stories, results, setting)
		resp.Accuracy = &report
	}
	writeJSON(w, http.StatusOK, resp)
}
