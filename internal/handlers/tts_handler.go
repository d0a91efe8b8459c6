package handlers

import (
	"net/http"
	"strings"

	"hanguldrill/internal/audio"
)

// TTSHandler synthesizes and serves sentence audio
type TTSHandler struct {
	tts *audio.TTSService
}

// NewTTSHandler creates a new TTS handler
func NewTTSHandler(tts *audio.TTSService) *TTSHandler {
	return &TTSHandler{tts: tts}
}

// Speak synthesizes the ?text= query and streams back the MP3
func (h *TTSHandler) Speak(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	filename, err := h.tts.Synthesize(r.Context(), text)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Speech synthesis failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, h.tts.FilePath(filename))
}
