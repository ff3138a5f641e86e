// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package upstream holds the HTTP plumbing shared by the TMDB catalog client
and the OpenRouter generator client.

Features:

  - Client-side rate limiting (golang.org/x/time/rate)
  - Automatic HTTP 429 handling with exponential backoff (1s, 2s, 4s, ...)
    honoring Retry-After
  - Bounded error body capture for diagnostics
  - Per-service request metrics
  - Breaker: a typed sony/gobreaker wrapper that exports state to
    Prometheus

Circuit breaker configuration:

  - Max 3 concurrent requests in half-open state
  - 1 minute measurement window
  - Opens after 60% failure rate with minimum 10 requests
  - Cancelled requests do not count as failures
*/
package upstream
