package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"hanguldrill/internal/ai"
	"hanguldrill/internal/korean"
	"hanguldrill/internal/service"
)

// ChatHandler proxies free-form generation, translation, conjugation and
// number conversion requests
type ChatHandler struct {
	client        *ai.Client
	phraseService *service.PhraseService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(client *ai.Client, phraseService *service.PhraseService) *ChatHandler {
	return &ChatHandler{client: client, phraseService: phraseService}
}

// Chat forwards a free-form prompt to the generation service
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, "Message is required", nil)
		return
	}

	reply, err := h.client.Generate(r.Context(), req.Message)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Generation service unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Translate translates text between Korean and English
func (h *ChatHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	translated, err := h.phraseService.Translate(r.Context(), req.Text)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Translation failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"translation": translated})
}

// Conjugate returns the conjugation table for a Korean verb
func (h *ChatHandler) Conjugate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verb    string `json:"verb"`
		English string `json:"english"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Verb) == "" {
		respondWithError(w, http.StatusBadRequest, "Verb is required", nil)
		return
	}

	table, err := h.phraseService.Conjugate(r.Context(), strings.TrimSpace(req.Verb), strings.TrimSpace(req.English))
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Conjugation failed", err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// ConvertNumber converts an Arabic numeral to Korean words. ?system=native
// forces native Korean; a counter in ?context= picks the system automatically.
func (h *ChatHandler) ConvertNumber(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid number", err)
		return
	}

	var word string
	switch {
	case r.URL.Query().Get("system") == "native":
		word = korean.ToNativeKorean(n)
	case r.URL.Query().Get("context") != "":
		word = korean.ConvertNumber(n, r.URL.Query().Get("context"))
	default:
		word = korean.ToSinoKorean(n)
	}
	respondJSON(w, http.StatusOK, map[string]string{"korean": word})
}
