// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package config provides centralized configuration management for Cinemetrics.

Configuration is layered with Koanf v2:

 1. Defaults from defaultConfig()
 2. An optional YAML file (CONFIG_PATH, then config.yaml, then /etc/cinemetrics/)
 3. Environment variables, mapped explicitly (unknown variables are ignored)

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3857)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - HTTP_MAX_BODY_BYTES: Largest accepted refresh body (default: 4MB)
  - ENVIRONMENT: development, staging or production
  - CORS_ORIGINS: Comma-separated list (wildcard rejected in production)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller location

Storage:
  - STORAGE_BACKEND: badger or memory (default: badger)
  - BADGER_PATH: Database directory (default: /data/cinemetrics)
  - BADGER_SYNC_WRITES: fsync every commit
  - STORAGE_SWEEP_INTERVAL: Expired-record sweep period (default: 1h, 0 disables)
  - STORAGE_GC_DISCARD_RATIO: Value log GC threshold (default: 0.5)

TMDB:
  - TMDB_API_KEY: API key (empty disables catalog lookups and trending)
  - TMDB_BASE_URL, TMDB_LANGUAGE (default: vi-VN), TMDB_TIMEOUT
  - TMDB_RPS, TMDB_BURST, TMDB_MAX_RETRIES
  - TMDB_LOOKUP_CACHE_TTL, TMDB_LOOKUP_CACHE_SIZE

OpenRouter:
  - OPENROUTER_API_KEY: API key (empty means trending-only recommendations)
  - OPENROUTER_ENDPOINT, OPENROUTER_MODEL, OPENROUTER_TEMPERATURE, OPENROUTER_REASONING
  - OPENROUTER_REFERER, OPENROUTER_TITLE: Sent as HTTP-Referer and X-Title
  - OPENROUTER_TIMEOUT, OPENROUTER_MAX_RETRIES
  - OPENROUTER_REQUEST_COUNT (default: 22), OPENROUTER_HISTORY_LIMIT (default: 50),
    OPENROUTER_MIN_RATING (default: 3)

Recommendations:
  - RECOMMEND_AI_CACHE_TTL (default: 168h), RECOMMEND_LEDGER_TTL (default: 720h)
  - RECOMMEND_MIN_HISTORY (default: 3), RECOMMEND_MAX_RESULTS (default: 20)
  - RECOMMEND_LOOKUP_CONCURRENCY (default: 5), RECOMMEND_REFRESH_TIMEOUT (default: 2m)
  - RECOMMEND_MAX_SESSIONS (default: 10000), RECOMMEND_SESSION_IDLE_TTL (default: 30m)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())
	manager, err := recommend.NewManager(cfg.RecommendOptions(), deps)

# Thread Safety

Config is read-only after Load returns and safe to share between goroutines.
*/
package config
