// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_refresh_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"}, // cache_hit, generated, trending_ineligible, trending_fallback, superseded, coalesced
	)

	RecommendRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_refresh_duration_seconds",
			Help:    "Duration of refresh cycles in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	RecommendCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_lookups_total",
			Help: "Personalized cache lookups by result",
		},
		[]string{"result"}, // hit, miss, stale, expired, corrupt, error
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallbacks_total",
			Help: "Refresh cycles that fell back to trending, by reason",
		},
		[]string{"reason"},
	)

	RecommendTrendingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_trending_failures_total",
			Help: "Trending fetches that failed and produced an empty list",
		},
	)

	RecommendCatalogMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_catalog_matches_total",
			Help: "Catalog reconciliation results per suggestion",
		},
		[]string{"result"}, // hit, miss, error
	)

	RecommendLedgerDiscards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_ledger_discards_total",
			Help: "Ledgers discarded on load, by reason",
		},
		[]string{"reason"}, // expired, corrupt
	)

	RecommendLedgerSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_ledger_titles",
			Help:    "Number of titles in a ledger after each write",
			Buckets: prometheus.ExponentialBuckets(10, 2, 8),
		},
	)

	RecommendActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_active_sessions",
			Help: "Number of users with a live recommendation session",
		},
	)

	// Storage Metrics
	StorageSweepDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_sweep_deletions_total",
			Help: "Records deleted by the storage sweeper",
		},
		[]string{"record", "reason"},
	)

	StorageSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storage_sweep_duration_seconds",
			Help:    "Duration of storage sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Upstream API Metrics (TMDB, OpenRouter)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total requests to upstream APIs",
		},
		[]string{"service", "operation", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service", "operation"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_retries_total",
			Help: "Retries caused by upstream rate limiting",
		},
		[]string{"service"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of in-memory cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of in-memory cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of in-memory cache entries",
		},
		[]string{"cache"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRefresh records a completed refresh cycle
func RecordRefresh(outcome string, duration time.Duration) {
	RecommendRefreshTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		RecommendRefreshDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// RecordCacheLookup records a personalized cache lookup result
func RecordCacheLookup(result string) {
	RecommendCacheLookups.WithLabelValues(result).Inc()
}

// RecordFallback records a fallback to trending
func RecordFallback(reason string) {
	RecommendFallbacks.WithLabelValues(reason).Inc()
}

// RecordTrendingFailure records a failed trending fetch
func RecordTrendingFailure() {
	RecommendTrendingFailures.Inc()
}

// RecordCatalogMatch records the reconciliation result of one suggestion
func RecordCatalogMatch(result string) {
	RecommendCatalogMatches.WithLabelValues(result).Inc()
}

// RecordLedgerDiscard records a ledger dropped on load
func RecordLedgerDiscard(reason string) {
	RecommendLedgerDiscards.WithLabelValues(reason).Inc()
}

// RecordLedgerSize records the ledger size after a write
func RecordLedgerSize(titles int) {
	RecommendLedgerSize.Observe(float64(titles))
}

// SetActiveSessions sets the number of live sessions
func SetActiveSessions(n int) {
	RecommendActiveSessions.Set(float64(n))
}

// RecordSweepDeletion records one record removed by the sweeper
func RecordSweepDeletion(record, reason string) {
	StorageSweepDeletions.WithLabelValues(record, reason).Inc()
}

// RecordSweep records a completed sweep
func RecordSweep(duration time.Duration) {
	StorageSweepDuration.Observe(duration.Seconds())
}

// RecordUpstreamRequest records a request to an upstream API. A zero
// status means the request never got a response.
func RecordUpstreamRequest(service, operation string, status int, duration time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(service, operation, label).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordUpstreamRetry records a rate-limit retry
func RecordUpstreamRetry(service string) {
	UpstreamRetries.WithLabelValues(service).Inc()
}

// RecordCacheAccess records an in-memory cache hit or miss
func RecordCacheAccess(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// SetCacheEntries sets the entry count of an in-memory cache
func SetCacheEntries(cache string, n int) {
	CacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordWSConnection tracks WebSocket connection count
func RecordWSConnection(inc bool) {
	if inc {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}

// RecordWSMessage records a WebSocket message sent
func RecordWSMessage() {
	WSMessagesSent.Inc()
}

// RecordWSError records a WebSocket error
func RecordWSError(errorType string) {
	WSErrors.WithLabelValues(errorType).Inc()
}
