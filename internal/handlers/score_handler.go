package handlers

import (
	"net/http"
	"strconv"

	"hanguldrill/internal/service"
)

const defaultScoreLimit = 50

// ScoreHandler serves the completed-mix score history
type ScoreHandler struct {
	scores *service.ScoreService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// List returns the most recent scores, newest first. ?limit= caps the count.
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	scores, err := h.scores.GetRecentScores(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load scores", err)
		return
	}

	type scorePayload struct {
		ID              int64   `json:"id"`
		TotalItems      int     `json:"total_items"`
		FirstTryCorrect int     `json:"first_try_correct"`
		Accuracy        float64 `json:"accuracy"`
		CreatedAt       string  `json:"created_at"`
	}
	payload := make([]scorePayload, len(scores))
	for i, s := range scores {
		payload[i] = scorePayload{
			ID:              s.ID,
			TotalItems:      s.TotalItems,
			FirstTryCorrect: s.FirstTryCorrect,
			Accuracy:        s.Accuracy(),
			CreatedAt:       s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	respondJSON(w, http.StatusOK, payload)
}
