package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/Harshitk-cp/tombench/internal/store"
)

type QAHandler struct {
	stories domain.StoryStore
	qaSets  domain.QASetStore
	svc     *service.QAService
}

func NewQAHandler(stories domain.StoryStore, qaSets domain.QASetStore, svc *service.QAService) *QAHandler {
	return &QAHandler{stories: stories, qaSets: qaSets, svc: svc}
}

type buildQARequest struct {
	Seed uint64 `json:"seed,omitempty"`
}

// Build samples a fresh QA set for a stored story, replacing the previous one.
func (h *QAHandler) Build(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	var req buildQARequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
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

	rng, _ := service.NewRand(req.Seed)
	q, err := h.svc.Build(rng, story)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.qaSets.Upsert(r.Context(), q); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store qa set")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QAHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant := requireTenant(w, r)
	if tenant == nil {
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	q, err := h.qaSets.GetByStoryID(r.Context(), id, tenant.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "qa set not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get qa set")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
