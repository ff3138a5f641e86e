// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	ws "github.com/tomtom215/cinemetrics/internal/websocket"
)

// userIDParam extracts and validates the {userID} path parameter,
// responding with 400 when it is malformed.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if err := recommend.ValidateUserID(userID); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "User ID must be 1-128 characters without whitespace", nil)
		return "", false
	}
	return userID, true
}

// respondRecommendError maps manager errors onto HTTP responses.
func respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, recommend.ErrInvalidUserID) {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
}

// RefreshRecommendations runs a refresh cycle for the user and returns the
// resulting snapshot.
//
// Method: POST
// Path: /api/v1/users/{userID}/recommendations/refresh
//
// Body:
//   - history: complete watch history (required, may be empty)
//   - force: bypass the cache and supersede any cycle in flight
//
// Generation failures never surface as errors: the snapshot state is
// "ready_trending" instead. A superseded cycle returns whatever the newer
// cycle has published so far.
func (h *Handler) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req RefreshRequest
	if !decodeJSONBody(w, r, h.maxBodyBytes, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	snap, err := h.recommender.Refresh(ctx, userID, req.History, req.Force)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("state", string(snap.State)).
		Uint64("cycle_id", snap.CycleID).
		Int("history", len(req.History)).
		Bool("force", req.Force).
		Msg("refresh served")

	respondSuccess(w, r, snap, start)
}

// GetRecommendations returns the user's current snapshot without starting
// a cycle.
//
// Method: GET
// Path: /api/v1/users/{userID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	snap, err := h.recommender.Snapshot(r.Context(), userID)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondSuccess(w, r, snap, start)
}

// GetLedger returns the titles previously proposed to the user that are
// excluded from future generations until the ledger expires.
//
// Method: GET
// Path: /api/v1/users/{userID}/recommendations/ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ledger, err := h.recommender.Ledger(r.Context(), userID)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondSuccess(w, r, ledger, start)
}

// RecommendationsWebSocket upgrades the connection and streams the user's
// snapshots. The current snapshot is sent first.
//
// Method: GET
// Path: /api/v1/users/{userID}/recommendations/ws
func (h *Handler) RecommendationsWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	snap, err := h.recommender.Snapshot(r.Context(), userID)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, userID)
	client.Enqueue(ws.Message{Type: ws.MessageTypeRecommendations, Data: snap})
	h.wsHub.Register <- client
	client.Start()
}
