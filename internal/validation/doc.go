// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator and translates field errors into
// the VALIDATION_ERROR envelope used by the HTTP API. Two custom tags are
// registered:
//
//   - notblank: the string has at least one non-space character
//   - printable: the string contains no control characters
//
// The same tags guard generator output: a suggestion whose title fails
// validation is dropped before it reaches the catalog.
//
// Example:
//
//	type RefreshRequest struct {
//	    History []models.WatchedItem `validate:"max=5000,dive"`
//	    Force   bool
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
