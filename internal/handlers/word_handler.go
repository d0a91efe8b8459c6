package handlers

import (
	"net/http"
	"strings"

	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"
)

// WordHandler handles lexicon CRUD requests
type WordHandler struct {
	words *repository.WordRepository
}

// NewWordHandler creates a new word handler
func NewWordHandler(words *repository.WordRepository) *WordHandler {
	return &WordHandler{words: words}
}

type wordPayload struct {
	ID      string `json:"id,omitempty"`
	Korean  string `json:"korean"`
	English string `json:"english"`
	Type    string `json:"type,omitempty"`
	Learned bool   `json:"learned"`
}

func toWordPayload(word *models.Word) wordPayload {
	return wordPayload{
		ID:      word.ID,
		Korean:  word.Korean,
		English: word.English,
		Type:    word.Type,
		Learned: word.Learned,
	}
}

// List returns the full lexicon
func (h *WordHandler) List(w http.ResponseWriter, r *http.Request) {
	words, err := h.words.GetAllWords()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load words", err)
		return
	}
	payload := make([]wordPayload, len(words))
	for i := range words {
		payload[i] = toWordPayload(&words[i])
	}
	respondJSON(w, http.StatusOK, payload)
}

// Learning returns the verbs still being learned, the pool the verb
// synthesizer draws from
func (h *WordHandler) Learning(w http.ResponseWriter, r *http.Request) {
	words, err := h.words.GetLearningVerbs()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load words", err)
		return
	}
	payload := make([]wordPayload, len(words))
	for i := range words {
		payload[i] = toWordPayload(&words[i])
	}
	respondJSON(w, http.StatusOK, payload)
}

// Create stores a new lexicon entry
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req wordPayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Korean) == "" || strings.TrimSpace(req.English) == "" {
		respondWithError(w, http.StatusBadRequest, "Korean and English are required", nil)
		return
	}

	word, err := h.words.CreateWord(strings.TrimSpace(req.Korean), strings.TrimSpace(req.English), strings.TrimSpace(req.Type))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create word", err)
		return
	}
	respondJSON(w, http.StatusCreated, toWordPayload(word))
}

// Update edits a lexicon entry
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.words.GetWordByID(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load word", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "Word not found", nil)
		return
	}

	var req wordPayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Korean) != "" {
		existing.Korean = strings.TrimSpace(req.Korean)
	}
	if strings.TrimSpace(req.English) != "" {
		existing.English = strings.TrimSpace(req.English)
	}
	existing.Type = strings.TrimSpace(req.Type)
	existing.Learned = req.Learned

	if err := h.words.UpdateWord(existing); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update word", err)
		return
	}
	respondJSON(w, http.StatusOK, toWordPayload(existing))
}

// Delete removes a lexicon entry
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.words.DeleteWord(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete word", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
