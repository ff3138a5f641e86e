// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/cinemetrics/internal/models"
)

// State is the recommendation state machine position for a user.
type State string

const (
	// StateIdle means no cycle has completed yet.
	StateIdle State = "idle"

	// StateLoading means a cycle is generating personalized results.
	StateLoading State = "loading"

	// StateReadyAI means the personalized list is current.
	StateReadyAI State = "ready_ai"

	// StateReadyTrending means the trending list is being served.
	StateReadyTrending State = "ready_trending"
)

// Snapshot is a point-in-time copy of a user's recommendation state.
type Snapshot struct {
	UserID              string                `json:"user_id"`
	State               State                 `json:"state"`
	AIRecommendations   []models.CatalogEntry `json:"ai_recommendations"`
	TrendingMovies      []models.CatalogEntry `json:"trending_movies"`
	IsAILoading         bool                  `json:"is_ai_loading"`
	LastAIHistoryLength int                   `json:"last_ai_history_length"`
	HasFetched          bool                  `json:"has_fetched"`
	CycleID             uint64                `json:"cycle_id"`
	UpdatedAt           time.Time             `json:"updated_at,omitempty"`
}

// LedgerSnapshot is a read-only view of a user's proposed-titles ledger.
type LedgerSnapshot struct {
	UserID    string    `json:"user_id"`
	Titles    []string  `json:"titles"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Catalog resolves a free-text title to catalog entries.
// An empty result means "not found". Errors are transport failures.
type Catalog interface {
	LookupByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error)
}

// Generator proposes titles for a user. eligible holds the watched
// items, full the complete history (watchlist included). Titles in
// exclude must not be proposed.
type Generator interface {
	Generate(ctx context.Context, eligible, full []models.WatchedItem, exclude []string) ([]models.Suggestion, error)
}

// Trending returns the platform-wide trending list.
type Trending interface {
	FetchTrending(ctx context.Context) ([]models.CatalogEntry, error)
}

// Provider bundles the three external capabilities the core consumes.
type Provider interface {
	Catalog
	Generator
	Trending
}

// Adapters composes independent implementations into a Provider.
type Adapters struct {
	Catalog
	Generator
	Trending
}

// Observer receives a snapshot after every state change. Publish is
// called with the session lock held and must not block.
type Observer interface {
	Publish(snap Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Publish implements Observer.
func (f ObserverFunc) Publish(snap Snapshot) { f(snap) }

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time
