// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinemetrics/internal/catalog"
	"github.com/tomtom215/cinemetrics/internal/generator"
	"github.com/tomtom215/cinemetrics/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinemetrics/config.yaml",
	"/etc/cinemetrics/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3857,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      3 * time.Minute, // refresh may wait on the LLM
			IdleTimeout:       2 * time.Minute,
			ShutdownTimeout:   30 * time.Second,
			Environment:       "development",
			MaxBodyBytes:      4 << 20, // 4MB
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Storage: StorageConfig{
			Backend:        "badger",
			Path:           "/data/cinemetrics",
			SyncWrites:     false,
			SweepInterval:  time.Hour,
			GCDiscardRatio: 0.5,
		},
		TMDB: TMDBConfig{
			BaseURL:           catalog.DefaultBaseURL,
			APIKey:            "",
			Language:          "vi-VN",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20, // TMDB allows roughly 40-50/s
			Burst:             10,
			MaxRetries:        3,
			LookupCacheTTL:    6 * time.Hour,
			LookupCacheSize:   5000,
		},
		OpenRouter: OpenRouterConfig{
			Endpoint:     generator.DefaultEndpoint,
			APIKey:       "",
			Model:        generator.DefaultModel,
			Temperature:  generator.DefaultTemperature,
			Reasoning:    true,
			Referer:      "",
			Title:        generator.DefaultTitle,
			Timeout:      90 * time.Second,
			MaxRetries:   2,
			RequestCount: generator.DefaultRequestCount,
			HistoryLimit: generator.DefaultHistoryLimit,
			MinRating:    generator.DefaultMinRating,
		},
		Recommend: RecommendConfig{
			AICacheTTL:        recommend.DefaultAICacheTTL,
			LedgerTTL:         recommend.DefaultLedgerTTL,
			MinHistory:        recommend.DefaultMinHistory,
			MaxResults:        recommend.DefaultMaxResults,
			LookupConcurrency: 5,
			RefreshTimeout:    2 * time.Minute,
			MaxSessions:       recommend.DefaultMaxSessions,
			SessionIdleTTL:    recommend.DefaultSessionIdleTTL,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"environment":           "server.environment",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Storage mappings
	"storage_backend":          "storage.backend",
	"badger_path":              "storage.path",
	"badger_sync_writes":       "storage.sync_writes",
	"storage_sweep_interval":   "storage.sweep_interval",
	"storage_gc_discard_ratio": "storage.gc_discard_ratio",

	// TMDB mappings
	"tmdb_base_url":          "tmdb.base_url",
	"tmdb_api_key":           "tmdb.api_key",
	"tmdb_language":          "tmdb.language",
	"tmdb_timeout":           "tmdb.timeout",
	"tmdb_rps":               "tmdb.requests_per_second",
	"tmdb_burst":             "tmdb.burst",
	"tmdb_max_retries":       "tmdb.max_retries",
	"tmdb_lookup_cache_ttl":  "tmdb.lookup_cache_ttl",
	"tmdb_lookup_cache_size": "tmdb.lookup_cache_size",

	// OpenRouter mappings
	"openrouter_endpoint":      "openrouter.endpoint",
	"openrouter_api_key":       "openrouter.api_key",
	"openrouter_model":         "openrouter.model",
	"openrouter_temperature":   "openrouter.temperature",
	"openrouter_reasoning":     "openrouter.reasoning",
	"openrouter_referer":       "openrouter.referer",
	"openrouter_title":         "openrouter.title",
	"openrouter_timeout":       "openrouter.timeout",
	"openrouter_max_retries":   "openrouter.max_retries",
	"openrouter_request_count": "openrouter.request_count",
	"openrouter_history_limit": "openrouter.history_limit",
	"openrouter_min_rating":    "openrouter.min_rating",

	// Recommendation mappings
	"recommend_ai_cache_ttl":       "recommend.ai_cache_ttl",
	"recommend_ledger_ttl":         "recommend.ledger_ttl",
	"recommend_min_history":        "recommend.min_history",
	"recommend_max_results":        "recommend.max_results",
	"recommend_lookup_concurrency": "recommend.lookup_concurrency",
	"recommend_refresh_timeout":    "recommend.refresh_timeout",
	"recommend_max_sessions":       "recommend.max_sessions",
	"recommend_session_idle_ttl":   "recommend.session_idle_ttl",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> tmdb.api_key
//   - OPENROUTER_MODEL -> openrouter.model
//   - HTTP_PORT -> server.port
//   - BADGER_PATH -> storage.path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// cannot pollute the configuration.
	return ""
}
