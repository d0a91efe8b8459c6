package handlers

import (
	"net/http"
	"strings"

	"hanguldrill/internal/models"
	"hanguldrill/internal/repository"
	"hanguldrill/internal/service"
)

// PhraseHandler handles curriculum phrase CRUD requests
type PhraseHandler struct {
	phrases       *repository.PhraseRepository
	phraseService *service.PhraseService
}

// NewPhraseHandler creates a new phrase handler
func NewPhraseHandler(phrases *repository.PhraseRepository, phraseService *service.PhraseService) *PhraseHandler {
	return &PhraseHandler{phrases: phrases, phraseService: phraseService}
}

type phrasePayload struct {
	ID              string     `json:"id,omitempty"`
	Korean          string     `json:"korean"`
	English         string     `json:"english"`
	POSTags         []string   `json:"pos_tags,omitempty"`
	AcceptedAnswers [][]string `json:"accepted_answers,omitempty"`
	Explanation     string     `json:"explanation,omitempty"`
	Source          string     `json:"source,omitempty"`
	TimesCorrect    int        `json:"times_correct"`
	TimesIncorrect  int        `json:"times_incorrect"`
	FirstTryCorrect int        `json:"first_try_correct"`
}

func toPhrasePayload(p *models.Phrase) phrasePayload {
	return phrasePayload{
		ID:              p.ID,
		Korean:          p.KoreanText,
		English:         p.EnglishText,
		POSTags:         p.POSTags,
		AcceptedAnswers: p.AcceptedAnswers,
		Explanation:     p.Explanation,
		Source:          p.Source,
		TimesCorrect:    p.TimesCorrect,
		TimesIncorrect:  p.TimesIncorrect,
		FirstTryCorrect: p.FirstTryCorrect,
	}
}

// List returns all phrases, optionally filtered by ?source=
func (h *PhraseHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		phrases []models.Phrase
		err     error
	)
	if source := r.URL.Query().Get("source"); source != "" {
		phrases, err = h.phrases.GetPhrasesBySource(source)
	} else {
		phrases, err = h.phrases.GetAllPhrases()
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load phrases", err)
		return
	}

	payload := make([]phrasePayload, len(phrases))
	for i := range phrases {
		payload[i] = toPhrasePayload(&phrases[i])
	}
	respondJSON(w, http.StatusOK, payload)
}

// Random returns one phrase drawn uniformly, optionally limited to ?source=
func (h *PhraseHandler) Random(w http.ResponseWriter, r *http.Request) {
	phrase, err := h.phraseService.RandomPhrase(r.URL.Query().Get("source"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load phrases", err)
		return
	}
	if phrase == nil {
		respondWithError(w, http.StatusNotFound, "No phrases stored", nil)
		return
	}
	respondJSON(w, http.StatusOK, toPhrasePayload(phrase))
}

// Create stores a new phrase and tags its tokens
func (h *PhraseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req phrasePayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Korean) == "" || strings.TrimSpace(req.English) == "" {
		respondWithError(w, http.StatusBadRequest, "Korean and English text are required", nil)
		return
	}
	source := req.Source
	if source == "" {
		source = models.SourceCurriculum
	}

	phrase, err := h.phraseService.CreatePhrase(r.Context(), strings.TrimSpace(req.Korean), strings.TrimSpace(req.English), source)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create phrase", err)
		return
	}
	respondJSON(w, http.StatusCreated, toPhrasePayload(phrase))
}

// Update edits an existing phrase
func (h *PhraseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.phrases.GetPhraseByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load phrase", err)
		return
	}
	if existing == nil {
		respondWithError(w, http.StatusNotFound, "Phrase not found", nil)
		return
	}

	var req phrasePayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Korean) != "" {
		existing.KoreanText = strings.TrimSpace(req.Korean)
	}
	if strings.TrimSpace(req.English) != "" {
		existing.EnglishText = strings.TrimSpace(req.English)
	}
	if req.POSTags != nil {
		existing.POSTags = req.POSTags
	}
	if req.AcceptedAnswers != nil {
		existing.AcceptedAnswers = req.AcceptedAnswers
	}
	if req.Explanation != "" {
		existing.Explanation = req.Explanation
	}

	if err := h.phrases.UpdatePhrase(existing); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update phrase", err)
		return
	}
	respondJSON(w, http.StatusOK, toPhrasePayload(existing))
}

// Delete removes a phrase
func (h *PhraseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.phrases.DeletePhrase(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete phrase", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type attemptPayload struct {
	Correct  bool `json:"correct"`
	FirstTry bool `json:"first_try"`
}

// RecordResult bumps a phrase's answer statistics
func (h *PhraseHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	phrase, err := h.phrases.GetPhraseByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load phrase", err)
		return
	}
	if phrase == nil {
		respondWithError(w, http.StatusNotFound, "Phrase not found", nil)
		return
	}

	var req attemptPayload
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.phrases.RecordAttempt(id, req.Correct, req.FirstTry); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record attempt", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// Explain generates and stores an explanation for a phrase
func (h *PhraseHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	phrase, err := h.phrases.GetPhraseByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load phrase", err)
		return
	}
	if phrase == nil {
		respondWithError(w, http.StatusNotFound, "Phrase not found", nil)
		return
	}

	text, err := h.phraseService.Explain(r.Context(), phrase.KoreanText, phrase.EnglishText)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Explanation generation failed", err)
		return
	}
	if err := h.phrases.UpdateExplanation(id, text); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to store explanation", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"explanation": text})
}
