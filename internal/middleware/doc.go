// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package middleware provides HTTP middleware shared by the API router.

Components:

  - RequestID: Assigns or propagates X-Request-ID and stores it in the
    logging context so every log line for a request carries the same ID
  - PrometheusMetrics: Records request counts, latency, and in-flight
    requests, labelled by chi route pattern rather than raw path

Route patterns keep metric cardinality bounded: a request to
/api/v1/users/alice/recommendations is recorded under
/api/v1/users/{userID}/recommendations.

Both middlewares have the chi signature func(http.Handler) http.Handler
and preserve http.Hijacker so websocket upgrades pass through.
*/
package middleware
