// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete and consistent.
// Missing upstream API keys are not errors: the service degrades to empty
// catalog results and trending-only recommendations.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateOpenRouter(); err != nil {
		return err
	}
	return c.validateRecommend()
}

// validEnvironments defines the allowed deployment environments
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether a wildcard origin is configured
// outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return !c.IsProduction() && c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("BADGER_PATH is required for the badger backend")
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: badger, memory")
	}
	if c.Storage.SweepInterval < 0 {
		return fmt.Errorf("STORAGE_SWEEP_INTERVAL must not be negative")
	}
	if c.Storage.GCDiscardRatio <= 0 || c.Storage.GCDiscardRatio >= 1 {
		return fmt.Errorf("STORAGE_GC_DISCARD_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateEndpointURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if containsPlaceholder(c.TMDB.APIKey) {
		return fmt.Errorf("TMDB_API_KEY contains a placeholder value")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.RequestsPerSecond < 0 || c.TMDB.Burst < 0 || c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("TMDB rate limit and retry settings must not be negative")
	}
	if c.TMDB.LookupCacheTTL < 0 || c.TMDB.LookupCacheSize < 0 {
		return fmt.Errorf("TMDB lookup cache settings must not be negative")
	}
	return nil
}

func (c *Config) validateOpenRouter() error {
	if err := validateEndpointURL(c.OpenRouter.Endpoint, "OPENROUTER_ENDPOINT"); err != nil {
		return err
	}
	if containsPlaceholder(c.OpenRouter.APIKey) {
		return fmt.Errorf("OPENROUTER_API_KEY contains a placeholder value")
	}
	if strings.TrimSpace(c.OpenRouter.Model) == "" {
		return fmt.Errorf("OPENROUTER_MODEL is required")
	}
	if c.OpenRouter.Temperature < 0 || c.OpenRouter.Temperature > 2 {
		return fmt.Errorf("OPENROUTER_TEMPERATURE must be between 0 and 2")
	}
	if c.OpenRouter.Timeout <= 0 {
		return fmt.Errorf("OPENROUTER_TIMEOUT must be positive")
	}
	if c.OpenRouter.RequestCount < 1 || c.OpenRouter.RequestCount > 100 {
		return fmt.Errorf("OPENROUTER_REQUEST_COUNT must be between 1 and 100")
	}
	if c.OpenRouter.HistoryLimit < 1 {
		return fmt.Errorf("OPENROUTER_HISTORY_LIMIT must be at least 1")
	}
	if c.OpenRouter.MinRating < 0 || c.OpenRouter.MinRating > 5 {
		return fmt.Errorf("OPENROUTER_MIN_RATING must be between 0 and 5")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.RecommendOptions().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.RefreshTimeout > 0 && c.Recommend.RefreshTimeout < c.OpenRouter.Timeout {
		return fmt.Errorf("RECOMMEND_REFRESH_TIMEOUT (%v) must not be shorter than OPENROUTER_TIMEOUT (%v)",
			c.Recommend.RefreshTimeout, c.OpenRouter.Timeout)
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"YOUR_KEY",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
