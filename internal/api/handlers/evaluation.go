package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/service"
)

type EvaluationHandler struct {
	batches   domain.BatchStore
	qaSets    domain.QASetStore
	results   domain.EvaluationStore
	evaluator *service.EvaluationService
}

func NewEvaluationHandler(batches domain.BatchStore, qaSets domain.QASetStore, results domain.EvaluationStore, evaluator *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{batches: batches, qaSets: qaSets, results: results, evaluator: evaluator}
}

type evaluationResponse struct {
	Summary domain.EvaluationSummary `json:"summary"`
	Results int                      `json:"results"`
}

// Run asks the configured model every stored question of a batch.
func (h *EvaluationHandler) Run(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	ctx := r.Context()
	if _, err := h.batches.GetByID(ctx, id, tenant.ID); err != nil {
		writeBatchLookupError(w, err)
		return
	}

	sets, err := h.qaSets.ListByBatch(ctx, id, tenant.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list qa sets")
		return
	}
	if len(sets) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "batch has no qa sets")
		return
	}

	results, summary, err := h.evaluator.Evaluate(ctx, sets)
	if err != nil {
		if errors.Is(err, service.ErrNoAnswerer) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}
	for i := range results {
		results[i].BatchID = &id
	}
	if err := h.results.CreateMany(ctx, results); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store results")
		return
	}
	writeJSON(w, http.StatusCreated, evaluationResponse{Summary: summary, Results: len(results)})
}

// Summary recomputes accuracy from stored results, optionally for one ?model=.
func (h *EvaluationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	ctx := r.Context()
	if _, err := h.batches.GetByID(ctx, id, tenant.ID); err != nil {
		writeBatchLookupError(w, err)
		return
	}

	model := r.URL.Query().Get("model")
	results, err := h.results.ListByBatch(ctx, id, model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "no evaluation results")
		return
	}
	if model == "" {
		model = results[0].Model
		for _, res := range results {
			if res.Model != model {
				model = "all"
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, service.Summarize(model, results))
}
