// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/upstream"
)

// ErrNotConfigured is returned by Client when no API key is set.
// BreakerClient converts it into an empty result.
var ErrNotConfigured = errors.New("tmdb: api key not configured")

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Config holds TMDB client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Language          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int

	// LookupCacheTTL is how long a title lookup is memoized. Zero disables
	// the memo.
	LookupCacheTTL  time.Duration
	LookupCacheSize int

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client
}

// Configured reports whether an API key is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}

// pagedResults is the TMDB list envelope.
type pagedResults struct {
	Page         int                   `json:"page"`
	Results      []models.CatalogEntry `json:"results"`
	TotalPages   int                   `json:"total_pages"`
	TotalResults int                   `json:"total_results"`
}

// Client is a TMDB API client.
type Client struct {
	http     *upstream.Client
	baseURL  string
	apiKey   string
	language string
}

// NewClient creates a TMDB client.
func NewClient(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: upstream.NewClient(upstream.Options{
			Service:           "tmdb",
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			MaxRetries:        cfg.MaxRetries,
			HTTPClient:        cfg.HTTPClient,
		}),
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
	}
}

// SearchMulti searches movies and TV shows by free text. An empty query
// returns no results.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CatalogEntry{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	page, err := c.get(ctx, "search", "/search/multi", params)
	if err != nil {
		return nil, err
	}
	return filterSupported(page.Results), nil
}

// Trending returns this week's trending movies and TV shows.
func (c *Client) Trending(ctx context.Context) ([]models.CatalogEntry, error) {
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}

	page, err := c.get(ctx, "trending", "/trending/all/week", params)
	if err != nil {
		return nil, err
	}
	return filterSupported(page.Results), nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values) (*pagedResults, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	resp, err := c.http.Do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := upstream.CheckStatus(resp, "tmdb", operation); err != nil {
		return nil, err
	}

	var page pagedResults
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("tmdb %s: decode response: %w", operation, err)
	}
	return &page, nil
}

// filterSupported keeps movie and TV results, preserving order.
func filterSupported(entries []models.CatalogEntry) []models.CatalogEntry {
	out := make([]models.CatalogEntry, 0, len(entries))
	for i := range entries {
		if entries[i].MediaType.IsSupported() {
			out = append(out, entries[i])
		}
	}
	return out
}
