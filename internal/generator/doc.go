// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package generator proposes titles for a user through an OpenRouter chat
completion.

Prompt construction:
  - Only titles rated at least MinRating (default 3) are sent
  - At most HistoryLimit (default 50) of them, most recently watched first
  - Each line reads "Title (r/5 stars) - Genre: g"
  - Titles already recommended or already in the user's history are listed
    as exclusions
  - The model is asked for RequestCount (default 22) titles so that enough
    survive catalog lookups

Response handling:
  - Markdown code fences are stripped
  - The content must decode as a JSON array of {"title", "reason"}
  - Items failing validation, duplicates, and excluded titles are dropped

A response that cannot be decoded yields ErrMalformedResponse. A missing
API key yields ErrNotConfigured. Both send the caller to its fallback.

BreakerClient adds a circuit breaker and implements recommend.Generator.
*/
package generator
