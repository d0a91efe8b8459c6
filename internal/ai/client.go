// Package ai is the client for the external language-generation service, an
// OpenAI-compatible chat-completions endpoint. Responses are free text; callers
// that need structure instruct the model to return JSON and extract it
// defensively with the helpers in json.go.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hanguldrill/internal/config"
)

var (
	// ErrMalformedResponse marks a generation that came back without usable
	// content after the retry. Recoverable: callers fall back or surface once.
	ErrMalformedResponse = errors.New("malformed generation response")

	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("generation service not configured")
)

const retryBackoff = 500 * time.Millisecond

// Client talks to the generation service
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// New creates a generation client from config
func New(cfg *config.Config) *Client {
	return &Client{
		apiKey: cfg.GenerateAPIKey,
		apiURL: cfg.GenerateAPIURL,
		model:  cfg.GenerateModel,
		httpClient: &http.Client{
			Timeout: cfg.GenerateTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends a single-prompt completion and returns the raw response text.
// A transient failure is retried once after a short backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.GenerateWithTemperature(ctx, prompt, 0)
}

// GenerateWithTemperature is Generate with an explicit sampling temperature
func (c *Client) GenerateWithTemperature(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	text, err := c.generateOnce(ctx, prompt, temperature)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	// one retry with backoff, then give up
	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return c.generateOnce(ctx, prompt, temperature)
}

func (c *Client) generateOnce(ctx context.Context, prompt string, temperature float64) (string, error) {
	request := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("generation API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
