package handlers

import (
	"errors"
	"net/http"

	"hanguldrill/internal/service"
)

// PracticeHandler exposes the practice session engine over HTTP
type PracticeHandler struct {
	controller *service.PracticeController
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(controller *service.PracticeController) *PracticeHandler {
	return &PracticeHandler{controller: controller}
}

// Start begins a practice session in the requested mode
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode   string `json:"mode"`
		Blanks int    `json:"blanks"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Blanks > 0 {
		h.controller.SetBlankCount(req.Blanks)
	}

	if err := h.controller.Start(r.Context(), req.Mode); err != nil {
		h.respondEngineError(w, "Failed to start practice session", err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.View())
}

// Answer submits the learner's input for the active blank
func (h *PracticeHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.controller.SubmitAnswer(r.Context(), req.Input)
	if err != nil && result == nil {
		h.respondEngineError(w, "Failed to process answer", err)
		return
	}

	payload := map[string]interface{}{
		"result":  result,
		"session": h.controller.View(),
	}
	if err != nil {
		// The answer was handled but a content fallback fired; surface it once.
		payload["warning"] = err.Error()
	}
	respondJSON(w, http.StatusOK, payload)
}

// ShowAnswer reveals the active blank, forfeiting first-try credit
func (h *PracticeHandler) ShowAnswer(w http.ResponseWriter, r *http.Request) {
	answer, err := h.controller.ShowAnswer()
	if err != nil {
		h.respondEngineError(w, "Cannot reveal answer", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// SwitchMode changes the active practice mode
func (h *PracticeHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.controller.SwitchMode(r.Context(), req.Mode); err != nil {
		h.respondEngineError(w, "Failed to switch mode", err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.View())
}

// Next skips the displayed sentence and advances to the following one
func (h *PracticeHandler) Next(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Next(r.Context()); err != nil {
		h.respondEngineError(w, "Failed to advance", err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.View())
}

// Retry recovers an errored session
func (h *PracticeHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Retry(r.Context()); err != nil {
		h.respondEngineError(w, "Retry failed", err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.View())
}

// State returns the current session snapshot
func (h *PracticeHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.View())
}

func (h *PracticeHandler) respondEngineError(w http.ResponseWriter, userMsg string, err error) {
	switch {
	case errors.Is(err, service.ErrBusy):
		respondWithError(w, http.StatusConflict, "Another operation is in progress", err)
	case errors.Is(err, service.ErrInvalidState):
		respondWithError(w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, service.ErrNoContent):
		respondWithError(w, http.StatusUnprocessableEntity, "No practice content available", err)
	default:
		respondWithError(w, http.StatusBadGateway, userMsg, err)
	}
}
