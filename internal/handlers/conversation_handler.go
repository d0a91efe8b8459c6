package handlers

import (
	"net/http"
	"strings"

	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"
)

// ConversationHandler handles conversation set CRUD requests
type ConversationHandler struct {
	conversations *repository.ConversationRepository
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *repository.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type conversationPayload struct {
	ID    string                    `json:"id,omitempty"`
	Title string                    `json:"title"`
	Lines []models.ConversationLine `json:"lines"`
}

// List returns every stored conversation with its lines
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	convs, err := h.conversations.GetAllConversations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load conversations", err)
		return
	}

	payload := make([]conversationPayload, len(convs))
	for i, c := range convs {
		payload[i] = conversationPayload{ID: c.ID, Title: c.Title, Lines: c.Lines}
	}
	respondJSON(w, http.StatusOK, payload)
}

// Create stores a new conversation transcript
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req conversationPayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Lines) == 0 {
		respondWithError(w, http.StatusBadRequest, "A conversation needs at least one line", nil)
		return
	}
	for _, line := range req.Lines {
		if strings.TrimSpace(line.Korean) == "" || strings.TrimSpace(line.English) == "" {
			respondWithError(w, http.StatusBadRequest, "Every line needs Korean and English text", nil)
			return
		}
	}

	conv, err := h.conversations.CreateConversation(strings.TrimSpace(req.Title), req.Lines)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create conversation", err)
		return
	}
	respondJSON(w, http.StatusCreated, conversationPayload{ID: conv.ID, Title: conv.Title, Lines: conv.Lines})
}

// Delete removes a conversation and its lines
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.DeleteConversation(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete conversation", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
