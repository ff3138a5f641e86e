// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package generator

import (
	"context"

	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/upstream"
)

var _ recommend.Generator = (*BreakerClient)(nil)

// BreakerClient wraps Client with circuit breaker protection.
//
// Malformed responses count as failures: a model that keeps returning
// garbage is treated like one that is down.
type BreakerClient struct {
	client  *Client
	breaker *upstream.Breaker[[]models.Suggestion]
}

// NewBreakerClient creates an OpenRouter client with a circuit breaker.
func NewBreakerClient(cfg *Config) *BreakerClient {
	return newBreakerClient(cfg, upstream.BreakerSettings{})
}

func newBreakerClient(cfg *Config, settings upstream.BreakerSettings) *BreakerClient {
	client := NewClient(cfg)
	if !client.Configured() {
		client.logger.Warn().Msg("OpenRouter API key not set, recommendations will fall back to trending")
	}
	return &BreakerClient{
		client:  client,
		breaker: upstream.NewBreaker[[]models.Suggestion]("openrouter-api", settings),
	}
}

// Generate implements recommend.Generator.
func (bc *BreakerClient) Generate(ctx context.Context, eligible, full []models.WatchedItem, exclude []string) ([]models.Suggestion, error) {
	if !bc.client.Configured() {
		return nil, ErrNotConfigured
	}
	return bc.breaker.Execute(func() ([]models.Suggestion, error) {
		return bc.client.Generate(ctx, eligible, full, exclude)
	})
}

// BreakerState returns the circuit breaker state name.
func (bc *BreakerClient) BreakerState() string {
	return bc.breaker.State()
}
