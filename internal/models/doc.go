// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package models defines the data structures shared across Cinemetrics.

Key Components:

  - WatchedItem: A tracked title from the user's watch history or watchlist
  - CatalogEntry: A TMDB search or trending result (movie or TV)
  - Suggestion: A title proposed by the recommendation generator
  - APIResponse: Standardized HTTP response envelope

Only WatchedItem values with history status count toward personalization.
Values without a status predate the watchlist feature and are treated as
history.

Thread Safety:
All types are plain values. Slices inside them must not be mutated after
being handed to another goroutine.
*/
package models
