// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))
	RecordAPIRequest("GET", "/api/v1/test", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total increased by %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordRefresh(t *testing.T) {
	tests := []struct {
		name     string
		outcome  string
		duration time.Duration
	}{
		{"generated", "generated", 2 * time.Second},
		{"cache hit", "cache_hit", 5 * time.Millisecond},
		{"coalesced without duration", "coalesced", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRefreshTotal.WithLabelValues(tt.outcome))
			RecordRefresh(tt.outcome, tt.duration)
			after := testutil.ToFloat64(RecommendRefreshTotal.WithLabelValues(tt.outcome))
			if after-before != 1 {
				t.Errorf("recommend_refresh_total{%s} increased by %v", tt.outcome, after-before)
			}
		})
	}
}

func TestRecordCacheLookupAndFallback(t *testing.T) {
	hitBefore := testutil.ToFloat64(RecommendCacheLookups.WithLabelValues("hit"))
	RecordCacheLookup("hit")
	if got := testutil.ToFloat64(RecommendCacheLookups.WithLabelValues("hit")); got != hitBefore+1 {
		t.Errorf("cache hit = %v, want %v", got, hitBefore+1)
	}

	fbBefore := testutil.ToFloat64(RecommendFallbacks.WithLabelValues("generator"))
	RecordFallback("generator")
	if got := testutil.ToFloat64(RecommendFallbacks.WithLabelValues("generator")); got != fbBefore+1 {
		t.Errorf("fallback = %v, want %v", got, fbBefore+1)
	}
}

func TestRecordUpstreamRequest_TransportError(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("tmdb", "search", "transport_error"))
	RecordUpstreamRequest("tmdb", "search", 0, time.Second)
	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("tmdb", "search", "transport_error"))
	if after-before != 1 {
		t.Errorf("transport_error count increased by %v, want 1", after-before)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("catalog_lookup"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("catalog_lookup"))

	RecordCacheAccess("catalog_lookup", true)
	RecordCacheAccess("catalog_lookup", false)
	RecordCacheAccess("catalog_lookup", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("catalog_lookup")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("catalog_lookup")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(7)
	if got := testutil.ToFloat64(RecommendActiveSessions); got != 7 {
		t.Errorf("active sessions = %v, want 7", got)
	}
}

func TestRecordWSConnection(t *testing.T) {
	before := testutil.ToFloat64(WSConnections)
	RecordWSConnection(true)
	RecordWSConnection(false)
	if got := testutil.ToFloat64(WSConnections); got != before {
		t.Errorf("connections = %v, want %v", got, before)
	}
}
