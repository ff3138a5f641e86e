// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q, want badger", cfg.Storage.Backend)
	}
	if cfg.TMDB.Language != "vi-VN" {
		t.Errorf("TMDB.Language = %q, want vi-VN", cfg.TMDB.Language)
	}
	if cfg.OpenRouter.Model != "x-ai/grok-4.1-fast:free" {
		t.Errorf("OpenRouter.Model = %q", cfg.OpenRouter.Model)
	}
	if cfg.OpenRouter.RequestCount != 22 {
		t.Errorf("OpenRouter.RequestCount = %d, want 22", cfg.OpenRouter.RequestCount)
	}
	if cfg.Recommend.AICacheTTL != 7*24*time.Hour {
		t.Errorf("Recommend.AICacheTTL = %v, want 168h", cfg.Recommend.AICacheTTL)
	}
	if cfg.Recommend.LedgerTTL != 30*24*time.Hour {
		t.Errorf("Recommend.LedgerTTL = %v, want 720h", cfg.Recommend.LedgerTTL)
	}
	if cfg.Recommend.MinHistory != 3 || cfg.Recommend.MaxResults != 20 {
		t.Errorf("Recommend thresholds = %d/%d, want 3/20", cfg.Recommend.MinHistory, cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.MaxSessions != 10000 || cfg.Recommend.SessionIdleTTL != 30*time.Minute {
		t.Errorf("Recommend sessions = %d/%v, want 10000/30m", cfg.Recommend.MaxSessions, cfg.Recommend.SessionIdleTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

// chdirTemp runs the test from an empty directory so no stray config.yaml
// is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TMDB_API_KEY", "tmdb-secret")
	t.Setenv("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("RECOMMEND_AI_CACHE_TTL", "24h")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.TMDB.APIKey != "tmdb-secret" {
		t.Errorf("TMDB.APIKey = %q", cfg.TMDB.APIKey)
	}
	if cfg.OpenRouter.Model != "openai/gpt-4o-mini" {
		t.Errorf("OpenRouter.Model = %q", cfg.OpenRouter.Model)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.AICacheTTL != 24*time.Hour {
		t.Errorf("Recommend.AICacheTTL = %v, want 24h", cfg.Recommend.AICacheTTL)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.org" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
server:
  port: 9000
  environment: staging
tmdb:
  language: en-US
recommend:
  max_results: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100") // env wins over file

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 from env", cfg.Server.Port)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Server.Environment = %q, want staging", cfg.Server.Environment)
	}
	if cfg.TMDB.Language != "en-US" {
		t.Errorf("TMDB.Language = %q, want en-US", cfg.TMDB.Language)
	}
	if cfg.Recommend.MaxResults != 10 {
		t.Errorf("Recommend.MaxResults = %d, want 10", cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.MinHistory != 3 {
		t.Errorf("Recommend.MinHistory = %d, want default 3", cfg.Recommend.MinHistory)
	}
}

func TestLoadWithKoanf_InvalidValue(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() accepted an invalid log level")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"TMDB_API_KEY", "tmdb.api_key"},
		{"OPENROUTER_MODEL", "openrouter.model"},
		{"BADGER_PATH", "storage.path"},
		{"DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},
		{"RECOMMEND_LEDGER_TTL", "recommend.ledger_ttl"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
