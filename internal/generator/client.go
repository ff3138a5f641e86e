// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/upstream"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("openrouter: api key not configured")

	// ErrMalformedResponse is returned when the completion is not a JSON
	// array of suggestions.
	ErrMalformedResponse = errors.New("openrouter: malformed response")
)

// Defaults for Config fields left at zero.
const (
	DefaultEndpoint     = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel        = "x-ai/grok-4.1-fast:free"
	DefaultTemperature  = 0.7
	DefaultTitle        = "Cinemetrics"
	DefaultRequestCount = 22
	DefaultHistoryLimit = 50
	DefaultMinRating    = 3
)

// Config holds OpenRouter client settings.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	Reasoning   bool

	// Referer and Title identify the application to OpenRouter.
	Referer string
	Title   string

	Timeout    time.Duration
	MaxRetries int

	RequestCount int
	HistoryLimit int
	MinRating    int

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.RequestCount <= 0 {
		c.RequestCount = DefaultRequestCount
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.MinRating <= 0 {
		c.MinRating = DefaultMinRating
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type reasoningOptions struct {
	Enabled bool `json:"enabled"`
}

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []chatMessage     `json:"messages"`
	Temperature float64           `json:"temperature"`
	Reasoning   *reasoningOptions `json:"reasoning,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
	} `json:"error,omitempty"`
}

// Client is an OpenRouter chat completion client.
type Client struct {
	http   *upstream.Client
	cfg    Config
	logger zerolog.Logger
}

// NewClient creates an OpenRouter client.
func NewClient(cfg *Config) *Client {
	c := cfg.withDefaults()
	return &Client{
		http: upstream.NewClient(upstream.Options{
			Service:    "openrouter",
			Timeout:    c.Timeout,
			MaxRetries: c.MaxRetries,
			HTTPClient: c.HTTPClient,
		}),
		cfg:    c,
		logger: logging.WithComponent("openrouter"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Generate asks the model for titles similar to the liked items in eligible,
// or to the most recent eligible items when none is rated highly enough.
// Titles in exclude and every title in full are listed as exclusions.
func (c *Client) Generate(ctx context.Context, eligible, full []models.WatchedItem, exclude []string) ([]models.Suggestion, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	liked := promptHistory(eligible, c.cfg.MinRating, c.cfg.HistoryLimit)
	excluded := exclusionList(full, exclude)

	content, err := c.Complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(liked, excluded, c.cfg.RequestCount)},
	})
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(content)
	if err != nil {
		return nil, err
	}

	kept, dropped := filterSuggestions(suggestions, excluded)
	c.logger.Debug().
		Int("liked", len(liked)).
		Int("excluded", len(excluded)).
		Int("returned", len(suggestions)).
		Int("dropped", dropped).
		Msg("Generated suggestions")
	return kept, nil
}

// Complete sends a chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []chatMessage) (string, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.Reasoning {
		body.Reasoning = &reasoningOptions{Enabled: true}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openrouter: encode request: %w", err)
	}

	resp, err := c.http.Do(ctx, "chat_completion", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.Referer != "" {
			req.Header.Set("HTTP-Referer", c.cfg.Referer)
		}
		req.Header.Set("X-Title", c.cfg.Title)
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := upstream.CheckStatus(resp, "openrouter", "chat_completion"); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %w", ErrMalformedResponse, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("openrouter: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return out.Choices[0].Message.Content, nil
}
