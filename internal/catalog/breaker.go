// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/cache"
	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/upstream"
)

var (
	_ recommend.Catalog  = (*BreakerClient)(nil)
	_ recommend.Trending = (*BreakerClient)(nil)
)

// BreakerClient wraps Client with a circuit breaker and a lookup memo.
type BreakerClient struct {
	client  *Client
	breaker *upstream.Breaker[[]models.CatalogEntry]
	memo    *cache.Cache[[]models.CatalogEntry] // nil when disabled
	logger  zerolog.Logger

	configured bool
}

// NewBreakerClient creates a TMDB client with circuit breaker protection.
func NewBreakerClient(cfg *Config) *BreakerClient {
	return newBreakerClient(cfg, upstream.BreakerSettings{})
}

func newBreakerClient(cfg *Config, settings upstream.BreakerSettings) *BreakerClient {
	bc := &BreakerClient{
		client:  NewClient(cfg),
		breaker: upstream.NewBreaker[[]models.CatalogEntry]("tmdb-api", settings),
		logger:  logging.WithComponent("tmdb"),

		configured: cfg.Configured(),
	}
	if cfg.LookupCacheTTL > 0 {
		bc.memo = cache.New[[]models.CatalogEntry](cache.Config{
			TTL:      cfg.LookupCacheTTL,
			Capacity: cfg.LookupCacheSize,
			Name:     "tmdb_lookup",
		})
	}
	if !bc.configured {
		bc.logger.Warn().Msg("TMDB API key not set, catalog lookups and trending will be empty")
	}
	return bc
}

// LookupByTitle returns catalog matches for title, best match first.
// Results, including empty ones, are memoized for LookupCacheTTL.
func (bc *BreakerClient) LookupByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error) {
	if !bc.configured {
		return []models.CatalogEntry{}, nil
	}

	key := memoKey(title)
	if bc.memo != nil {
		if entries, ok := bc.memo.Get(key); ok {
			return cloneEntries(entries), nil
		}
	}

	entries, err := bc.breaker.Execute(func() ([]models.CatalogEntry, error) {
		return bc.client.SearchMulti(ctx, title)
	})
	if err != nil {
		return nil, err
	}

	if bc.memo != nil {
		bc.memo.Set(key, cloneEntries(entries))
	}
	return entries, nil
}

// FetchTrending returns this week's trending titles. It is never memoized.
func (bc *BreakerClient) FetchTrending(ctx context.Context) ([]models.CatalogEntry, error) {
	if !bc.configured {
		return []models.CatalogEntry{}, nil
	}
	return bc.breaker.Execute(func() ([]models.CatalogEntry, error) {
		return bc.client.Trending(ctx)
	})
}

// BreakerState returns the circuit breaker state name.
func (bc *BreakerClient) BreakerState() string {
	return bc.breaker.State()
}

// Close stops the memo cleanup loop.
func (bc *BreakerClient) Close() {
	if bc.memo != nil {
		bc.memo.Close()
	}
}

func memoKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

func cloneEntries(entries []models.CatalogEntry) []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(entries))
	copy(out, entries)
	return out
}
