package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hanguldrill/internal/ai"
	"hanguldrill/internal/config"
)

func conjugationService(apiURL, apiKey string) *PhraseService {
	client := ai.New(&config.Config{
		GenerateAPIKey:  apiKey,
		GenerateAPIURL:  apiURL,
		GenerateModel:   "test-model",
		GenerateTimeout: time.Second,
	})
	return NewPhraseService(nil, nil, client, nil)
}

func TestPhraseServiceConjugatePrefersGeneration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"base_form\":\"듣다\",\"english\":\"to listen\",\"present_formal\":\"들어요\",\"past_formal\":\"들었어요\",\"future_formal\":\"들을 거예요\",\"verb_type\":\"irregular\",\"conjugation_pattern\":\"ㄷ irregular\"}"}}]}`))
	}))
	defer server.Close()

	svc := conjugationService(server.URL, "test-key")
	got, err := svc.Conjugate(context.Background(), "듣다", "to listen")
	if err != nil {
		t.Fatalf("Conjugate() error: %v", err)
	}
	if got.PresentFormal != "들어요" || got.VerbType != "irregular" {
		t.Fatalf("conjugations = %+v, want the generated table", got)
	}
}

func TestPhraseServiceConjugateFallsBack(t *testing.T) {
	// No API key configured: the deterministic conjugator serves the polite
	// forms instead.
	svc := conjugationService("http://127.0.0.1:0", "")
	got, err := svc.Conjugate(context.Background(), "먹다", "to eat")
	if err != nil {
		t.Fatalf("Conjugate() error: %v", err)
	}
	if got.BaseForm != "먹다" || got.PresentFormal != "먹어요" || got.PastFormal != "먹었어요" || got.FutureFormal != "먹을 거예요" {
		t.Fatalf("fallback conjugations = %+v", got)
	}
}

func TestPhraseServiceConjugateUnparseableVerb(t *testing.T) {
	svc := conjugationService("http://127.0.0.1:0", "")
	if _, err := svc.Conjugate(context.Background(), "사과", "apple"); err == nil {
		t.Fatal("expected an error for a non-verb with no generation service")
	}
}
