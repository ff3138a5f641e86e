// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package catalog provides the TMDB client used for title lookups and the
trending list.

Client talks to the TMDB v3 API:

  - /search/multi: free-text title lookup (movies and TV, adult excluded)
  - /trending/all/week: platform-wide trending titles

Results whose media_type is neither movie nor tv are discarded.

BreakerClient wraps Client with a circuit breaker and a short-lived lookup
memo, and implements recommend.Catalog and recommend.Trending.

When no API key is configured, lookups and trending return empty results
instead of failing. The recommendation core then drops every suggestion
and serves an empty trending list.

Resilience Mechanisms:
  - Client-side rate limit (golang.org/x/time/rate)
  - Exponential backoff with Retry-After on HTTP 429
  - Circuit breaker: opens at 60% failures over at least 10 requests
*/
package catalog
