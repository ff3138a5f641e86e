// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/storage"
	ws "github.com/tomtom215/cinemetrics/internal/websocket"
)

// defaultMaxBodyBytes applies when HandlerConfig.MaxBodyBytes is unset.
const defaultMaxBodyBytes = 4 << 20

// Recommender is the subset of recommend.Manager the handlers use.
type Recommender interface {
	Refresh(ctx context.Context, userID string, history []models.WatchedItem, force bool) (recommend.Snapshot, error)
	Snapshot(ctx context.Context, userID string) (recommend.Snapshot, error)
	Ledger(ctx context.Context, userID string) (recommend.LedgerSnapshot, error)
	Sessions() int
}

// BreakerReporter exposes an upstream circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

// HandlerConfig carries the handler dependencies.
type HandlerConfig struct {
	Recommender Recommender
	Store       storage.Store

	// Hub is optional; without it the websocket endpoint answers 503.
	Hub *ws.Hub

	// Breakers are reported by name on /health.
	Breakers map[string]BreakerReporter

	MaxBodyBytes int64
	Version      string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_helpers.go: response and decoding helpers
//   - handlers_recommend.go: recommendation endpoints
//   - handlers_health.go: health checks
type Handler struct {
	recommender  Recommender
	store        storage.Store
	wsHub        *ws.Hub
	breakers     map[string]BreakerReporter
	maxBodyBytes int64
	version      string
	startTime    time.Time
	originCheck  func(origin string) bool
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		recommender:  cfg.Recommender,
		store:        cfg.Store,
		wsHub:        cfg.Hub,
		breakers:     cfg.Breakers,
		maxBodyBytes: maxBody,
		version:      version,
		startTime:    time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// CORS allow list. Requests without an Origin header come from non-browser
// clients and are accepted.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.originCheck == nil {
		return true
	}
	if h.originCheck(origin) {
		return true
	}
	logging.Ctx(r.Context()).Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
