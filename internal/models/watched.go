// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package models

import "time"

// WatchStatus discriminates between titles the user has seen and titles
// the user intends to see.
type WatchStatus string

const (
	// StatusHistory marks a title the user has already watched.
	StatusHistory WatchStatus = "history"

	// StatusWatchlist marks a title the user plans to watch.
	StatusWatchlist WatchStatus = "watchlist"
)

// WatchedItem is a tracked title owned by the watch-history service.
// The recommendation core only reads it.
//
// Fields:
//   - ID: Identifier assigned by the history store
//   - Title: Display title used for prompting and catalog lookups
//   - Rating: 0-5 stars, 0 means unrated
//   - Genres: Optional free-form genre tags
//   - WatchedAt: When the item was watched (or added to the watchlist)
//   - Status: history or watchlist; empty is treated as history
type WatchedItem struct {
	ID        string      `json:"id" validate:"omitempty,max=128"`
	Title     string      `json:"title" validate:"required,notblank,printable,max=512"`
	Rating    int         `json:"rating" validate:"gte=0,lte=5"`
	Genres    []string    `json:"genres,omitempty" validate:"omitempty,max=32,dive,max=64"`
	WatchedAt time.Time   `json:"watched_at"`
	Status    WatchStatus `json:"status,omitempty" validate:"omitempty,oneof=history watchlist"`
}

// IsWatched reports whether the item counts toward personalization.
// Items recorded before the status field existed carry no status and
// are treated as history.
func (w WatchedItem) IsWatched() bool {
	return w.Status == "" || w.Status == StatusHistory
}

// FilterWatched returns the subset of items with history status,
// preserving input order.
func FilterWatched(items []WatchedItem) []WatchedItem {
	watched := make([]WatchedItem, 0, len(items))
	for _, item := range items {
		if item.IsWatched() {
			watched = append(watched, item)
		}
	}
	return watched
}
