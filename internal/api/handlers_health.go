// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinemetrics/internal/storage"
	"github.com/tomtom215/cinemetrics/internal/upstream"
)

// storeHealthKey is read by health checks; it is never written.
const storeHealthKey = "health:check"

// storeHealthTimeout bounds the storage read of a health check.
const storeHealthTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status           string            `json:"status"`
	Version          string            `json:"version"`
	StoreReachable   bool              `json:"store_reachable"`
	Breakers         map[string]string `json:"breakers"`
	ActiveSessions   int               `json:"active_sessions"`
	WebSocketClients int               `json:"websocket_clients"`
	Uptime           float64           `json:"uptime_seconds"`
}

// storeReachable reports whether a read against the store succeeds. A
// missing key is a successful read.
func (h *Handler) storeReachable(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, storeHealthTimeout)
	defer cancel()

	_, err := h.store.Get(ctx, storeHealthKey)
	return err == nil || errors.Is(err, storage.ErrNotFound)
}

// Health reports storage reachability and upstream breaker states.
//
// Status is "healthy" when storage is reachable and every breaker is
// closed, "degraded" when a breaker is not closed (recommendations fall
// back to trending), and "unhealthy" when storage is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	breakers := make(map[string]string, len(h.breakers))
	for name, reporter := range h.breakers {
		state := reporter.BreakerState()
		breakers[name] = state
		if state != upstream.StateClosed {
			status = "degraded"
		}
	}

	reachable := h.storeReachable(r.Context())
	if !reachable {
		status = "unhealthy"
	}

	health := HealthStatus{
		Status:         status,
		Version:        h.version,
		StoreReachable: reachable,
		Breakers:       breakers,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.recommender != nil {
		health.ActiveSessions = h.recommender.Sessions()
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}

	respondSuccess(w, r, health, start)
}

// HealthLive returns 200 while the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady returns 200 when storage is reachable and 503 otherwise.
// Open breakers do not affect readiness since trending fallback still
// serves results.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.storeReachable(r.Context()) {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Storage is unreachable", nil)
		return
	}
	respondSuccess(w, r, map[string]interface{}{"ready": true}, time.Now())
}
