package audio

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Speaker pre-renders the audio for a sentence so the client can play it
// immediately. It satisfies the session engine's speech contract: Speak
// returns once the audio is ready, and the engine's own advance delay stands
// in for playback time.
type Speaker struct {
	tts *TTSService
}

// NewSpeaker wraps a TTS service as the engine's speech collaborator
func NewSpeaker(tts *TTSService) *Speaker {
	return &Speaker{tts: tts}
}

// Speak synthesizes the sentence audio. Failures are logged, not fatal: a
// session without sound still works.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if _, err := s.tts.Synthesize(ctx, text); err != nil {
		log.WithError(err).Warn("Speech synthesis failed")
		return err
	}
	return nil
}
