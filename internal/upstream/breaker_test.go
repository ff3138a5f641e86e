// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cinemetrics/internal/metrics"
)

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := NewBreaker[int]("test-open", BreakerSettings{MinRequests: 4, FailureRatio: 0.5, Timeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_, _ = b.Execute(func() (int, error) { return 0, boom })
	}

	if b.State() != "open" {
		t.Fatalf("State() = %s, want open", b.State())
	}
	_, err := b.Execute(func() (int, error) { return 1, nil })
	if !IsOpen(err) {
		t.Errorf("Execute() error = %v, want open-state rejection", err)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	b := NewBreaker[int]("test-cancel", BreakerSettings{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Hour})

	for i := 0; i < 5; i++ {
		_, err := b.Execute(func() (int, error) { return 0, context.Canceled })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %s, want closed", b.State())
	}
}

func TestBreaker_PassesResults(t *testing.T) {
	b := NewBreaker[string]("test-pass", BreakerSettings{})
	got, err := b.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Execute() = %q, %v", got, err)
	}
	if b.Name() != "test-pass" {
		t.Errorf("Name() = %q", b.Name())
	}
}
