// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package config

import (
	"time"

	"github.com/tomtom215/cinemetrics/internal/catalog"
	"github.com/tomtom215/cinemetrics/internal/generator"
	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Upstreams:
//     - TMDB: Catalog lookups and the trending list
//     - OpenRouter: LLM-backed title suggestions
//
//  2. Infrastructure:
//     - Storage: BadgerDB (or in-memory) persistence for caches and ledgers
//     - Server: HTTP server, CORS, rate limiting
//
//  3. Recommendations:
//     - Recommend: TTLs, eligibility threshold, result cap
//
//  4. Observability:
//     - Logging: Log levels and output formats
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Storage    StorageConfig    `koanf:"storage"`
	TMDB       TMDBConfig       `koanf:"tmdb"`
	OpenRouter OpenRouterConfig `koanf:"openrouter"`
	Recommend  RecommendConfig  `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production

	// MaxBodyBytes bounds refresh request bodies (watch histories).
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Backend is badger or memory. Memory loses all caches and ledgers
	// on restart.
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`

	// SweepInterval is how often expired ledgers and corrupt records are
	// removed. Zero disables the sweeper.
	SweepInterval  time.Duration `koanf:"sweep_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// TMDBConfig holds catalog client settings.
type TMDBConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	LookupCacheTTL    time.Duration `koanf:"lookup_cache_ttl"`
	LookupCacheSize   int           `koanf:"lookup_cache_size"`
}

// OpenRouterConfig holds generator settings.
type OpenRouterConfig struct {
	Endpoint     string        `koanf:"endpoint"`
	APIKey       string        `koanf:"api_key"`
	Model        string        `koanf:"model"`
	Temperature  float64       `koanf:"temperature"`
	Reasoning    bool          `koanf:"reasoning"`
	Referer      string        `koanf:"referer"`
	Title        string        `koanf:"title"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxRetries   int           `koanf:"max_retries"`
	RequestCount int           `koanf:"request_count"`
	HistoryLimit int           `koanf:"history_limit"`
	MinRating    int           `koanf:"min_rating"`
}

// RecommendConfig holds recommendation core settings.
type RecommendConfig struct {
	AICacheTTL        time.Duration `koanf:"ai_cache_ttl"`
	LedgerTTL         time.Duration `koanf:"ledger_ttl"`
	MinHistory        int           `koanf:"min_history"`
	MaxResults        int           `koanf:"max_results"`
	LookupConcurrency int           `koanf:"lookup_concurrency"`
	RefreshTimeout    time.Duration `koanf:"refresh_timeout"`
	MaxSessions       int           `koanf:"max_sessions"`
	SessionIdleTTL    time.Duration `koanf:"session_idle_ttl"`
}

// Load loads configuration from defaults, an optional config file, and
// environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LoggingOptions projects the logging section onto logging.Config.
func (c *Config) LoggingOptions() logging.Config {
	opts := logging.DefaultConfig()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	opts.Caller = c.Logging.Caller
	return opts
}

// BadgerOptions projects the storage section onto storage.BadgerConfig.
func (c *Config) BadgerOptions() *storage.BadgerConfig {
	logger := logging.Logger()
	return &storage.BadgerConfig{
		Path:       c.Storage.Path,
		SyncWrites: c.Storage.SyncWrites,
		Logger:     &logger,
	}
}

// CatalogOptions projects the tmdb section onto catalog.Config.
func (c *Config) CatalogOptions() *catalog.Config {
	return &catalog.Config{
		BaseURL:           c.TMDB.BaseURL,
		APIKey:            c.TMDB.APIKey,
		Language:          c.TMDB.Language,
		Timeout:           c.TMDB.Timeout,
		RequestsPerSecond: c.TMDB.RequestsPerSecond,
		Burst:             c.TMDB.Burst,
		MaxRetries:        c.TMDB.MaxRetries,
		LookupCacheTTL:    c.TMDB.LookupCacheTTL,
		LookupCacheSize:   c.TMDB.LookupCacheSize,
	}
}

// GeneratorOptions projects the openrouter section onto generator.Config.
func (c *Config) GeneratorOptions() *generator.Config {
	return &generator.Config{
		Endpoint:     c.OpenRouter.Endpoint,
		APIKey:       c.OpenRouter.APIKey,
		Model:        c.OpenRouter.Model,
		Temperature:  c.OpenRouter.Temperature,
		Reasoning:    c.OpenRouter.Reasoning,
		Referer:      c.OpenRouter.Referer,
		Title:        c.OpenRouter.Title,
		Timeout:      c.OpenRouter.Timeout,
		MaxRetries:   c.OpenRouter.MaxRetries,
		RequestCount: c.OpenRouter.RequestCount,
		HistoryLimit: c.OpenRouter.HistoryLimit,
		MinRating:    c.OpenRouter.MinRating,
	}
}

// RecommendOptions projects the recommend and storage sections onto
// recommend.Config.
func (c *Config) RecommendOptions() *recommend.Config {
	return &recommend.Config{
		AICacheTTL:        c.Recommend.AICacheTTL,
		LedgerTTL:         c.Recommend.LedgerTTL,
		MinHistory:        c.Recommend.MinHistory,
		MaxResults:        c.Recommend.MaxResults,
		LookupConcurrency: c.Recommend.LookupConcurrency,
		RefreshTimeout:    c.Recommend.RefreshTimeout,
		SweepInterval:     c.Storage.SweepInterval,
		GCDiscardRatio:    c.Storage.GCDiscardRatio,
		MaxSessions:       c.Recommend.MaxSessions,
		SessionIdleTTL:    c.Recommend.SessionIdleTTL,
	}
}
