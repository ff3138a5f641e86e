// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"fmt"
	"time"
)

const (
	// DefaultAICacheTTL is how long a personalized result stays servable.
	DefaultAICacheTTL = 7 * 24 * time.Hour

	// DefaultLedgerTTL is the sliding expiry of the proposed-titles ledger.
	DefaultLedgerTTL = 30 * 24 * time.Hour

	// DefaultMinHistory is the eligibility threshold for personalization.
	DefaultMinHistory = 3

	// DefaultMaxResults caps the personalized list.
	DefaultMaxResults = 20

	// DefaultMaxSessions bounds the in-memory sessions held by a Manager.
	DefaultMaxSessions = 10000

	// DefaultSessionIdleTTL is how long an unused session is kept.
	DefaultSessionIdleTTL = 30 * time.Minute
)

// Config contains all configuration for the recommendation core.
type Config struct {
	// AICacheTTL is the lifetime of a cached personalized result.
	// Default: 7 days.
	AICacheTTL time.Duration `json:"ai_cache_ttl"`

	// LedgerTTL is the sliding lifetime of the previously-recommended
	// ledger. Default: 30 days.
	LedgerTTL time.Duration `json:"ledger_ttl"`

	// MinHistory is the minimum number of watched items required before
	// personalization is attempted. Default: 3.
	MinHistory int `json:"min_history"`

	// MaxResults caps the personalized list. Default: 20.
	MaxResults int `json:"max_results"`

	// LookupConcurrency bounds parallel catalog lookups per cycle.
	// Default: 5.
	LookupConcurrency int `json:"lookup_concurrency"`

	// RefreshTimeout bounds one refresh cycle end to end, fallback
	// included. Default: 2m.
	RefreshTimeout time.Duration `json:"refresh_timeout"`

	// SweepInterval is how often persisted records are checked for
	// expiry and corruption. Default: 1h.
	SweepInterval time.Duration `json:"sweep_interval"`

	// GCDiscardRatio is passed to stores that support value log GC.
	// Default: 0.5.
	GCDiscardRatio float64 `json:"gc_discard_ratio"`

	// MaxSessions bounds the sessions kept in memory. Least recently used
	// sessions without a running refresh are dropped beyond it.
	// Default: 10000.
	MaxSessions int `json:"max_sessions"`

	// SessionIdleTTL drops sessions unused for this long. Zero keeps
	// them until MaxSessions forces them out. Default: 30m.
	SessionIdleTTL time.Duration `json:"session_idle_ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		AICacheTTL:        DefaultAICacheTTL,
		LedgerTTL:         DefaultLedgerTTL,
		MinHistory:        DefaultMinHistory,
		MaxResults:        DefaultMaxResults,
		LookupConcurrency: 5,
		RefreshTimeout:    2 * time.Minute,
		SweepInterval:     time.Hour,
		GCDiscardRatio:    0.5,
		MaxSessions:       DefaultMaxSessions,
		SessionIdleTTL:    DefaultSessionIdleTTL,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.AICacheTTL <= 0 {
		return fmt.Errorf("ai_cache_ttl must be positive, got %v", c.AICacheTTL)
	}
	if c.LedgerTTL <= 0 {
		return fmt.Errorf("ledger_ttl must be positive, got %v", c.LedgerTTL)
	}
	if c.MinHistory < 0 {
		return fmt.Errorf("min_history must be non-negative, got %d", c.MinHistory)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if c.LookupConcurrency < 1 {
		return fmt.Errorf("lookup_concurrency must be positive, got %d", c.LookupConcurrency)
	}
	if c.RefreshTimeout < 0 {
		return fmt.Errorf("refresh_timeout must be non-negative, got %v", c.RefreshTimeout)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("sweep_interval must be non-negative, got %v", c.SweepInterval)
	}
	if c.GCDiscardRatio <= 0 || c.GCDiscardRatio >= 1 {
		return fmt.Errorf("gc_discard_ratio must be in (0, 1), got %f", c.GCDiscardRatio)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.MaxSessions)
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("session_idle_ttl must be non-negative, got %v", c.SessionIdleTTL)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
