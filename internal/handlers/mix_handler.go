package handlers

import (
	"net/http"

	"hanguldrill/internal/repository"
	"hanguldrill/internal/service"
)

// MixHandler exposes the persisted practice mix
type MixHandler struct {
	mixes    *repository.MixRepository
	composer *service.MixComposer
}

// NewMixHandler creates a new mix handler
func NewMixHandler(mixes *repository.MixRepository, composer *service.MixComposer) *MixHandler {
	return &MixHandler{mixes: mixes, composer: composer}
}

// Get returns the stored mix state
func (h *MixHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.mixes.LoadMix()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load mix", err)
		return
	}
	if state == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"items": nil, "cursor": 0})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":             state.Items,
		"cursor":            state.Cursor,
		"first_try_correct": state.FirstTryCorrectCount,
		"updated_at":        state.UpdatedAt,
	})
}

// Recompose builds and persists a brand-new mix, discarding the current one
func (h *MixHandler) Recompose(w http.ResponseWriter, r *http.Request) {
	state, err := h.composer.Compose(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to compose mix", err)
		return
	}
	if err := h.mixes.SaveMix(state); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to persist mix", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  state.Items,
		"cursor": state.Cursor,
	})
}
