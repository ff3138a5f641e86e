// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package metrics provides Prometheus instrumentation for Cinemetrics.

All collectors are registered with the default registry at package init
via promauto and exposed by the HTTP server at /metrics.

Metric Families:

  - api_*: request counts, latency and rate-limit rejections
  - recommend_*: refresh outcomes, cache lookups, fallbacks, ledger size
  - storage_sweep_*: sweeper deletions and duration
  - upstream_*: TMDB and OpenRouter request counts, latency, retries
  - cache_*: in-memory lookup memo efficiency
  - websocket_*: live snapshot push connections
  - circuit_breaker_*: breaker state and transitions per upstream

Callers use the Record* helpers rather than touching collectors directly:

	metrics.RecordRefresh("generated", time.Since(start))
	metrics.RecordUpstreamRequest("tmdb", "search", resp.StatusCode, elapsed)

Label values are bounded sets. User IDs and titles are never used as
labels.
*/
package metrics
