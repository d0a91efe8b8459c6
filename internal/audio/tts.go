package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const ttsRequestTimeout = 10 * time.Second

// TTSService turns Korean text into cached MP3 files using the Google
// Translate speech endpoint (free, no API key)
type TTSService struct {
	audioDir string
	lang     string
	client   *http.Client
}

// NewTTSService creates a TTS service writing MP3s under audioDir
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		lang:     "ko",
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Synthesize converts text to speech and returns the MP3 filename (not the
// full path). Results are cached by text hash, so repeated sentences cost one
// network call total.
func (s *TTSService) Synthesize(ctx context.Context, text string) (string, error) {
	// Korean text cannot go into a filename portably, so key by hash.
	sum := sha1.Sum([]byte(s.lang + ":" + text))
	filename := fmt.Sprintf("tts_%s.mp3", hex.EncodeToString(sum[:]))
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetch(ctx, text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}
	return filename, nil
}

// FilePath resolves a synthesized filename back to its on-disk path
func (s *TTSService) FilePath(filename string) string {
	return filepath.Join(s.audioDir, filepath.Base(filename))
}

func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", s.lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// The endpoint rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
