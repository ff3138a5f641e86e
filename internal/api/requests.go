// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package api

import "github.com/tomtom215/cinemetrics/internal/models"

// RefreshRequest is the body of POST .../recommendations/refresh.
type RefreshRequest struct {
	// History is the user's complete watch history, watchlist included,
	// capped at 10000 items.
	History []models.WatchedItem `json:"history" validate:"max=10000,dive"`

	// Force bypasses the cache and supersedes any cycle in flight.
	Force bool `json:"force"`
}
