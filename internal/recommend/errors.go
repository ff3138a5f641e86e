// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import "errors"

var (
	// ErrInvalidUserID is returned for an empty or malformed user ID.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrSuperseded marks a cycle whose result lost to a newer cycle.
	ErrSuperseded = errors.New("refresh cycle superseded")

	// ErrNoSuggestions is returned when the generator proposed nothing.
	ErrNoSuggestions = errors.New("generator returned no suggestions")

	// ErrNoMatches is returned when no suggestion resolved in the catalog.
	ErrNoMatches = errors.New("no suggestion matched the catalog")

	// ErrCatalogUnavailable is returned when every catalog lookup failed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrAdapterPanic wraps a recovered panic from an adapter.
	ErrAdapterPanic = errors.New("adapter panicked")
)
