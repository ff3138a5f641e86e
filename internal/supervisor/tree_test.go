// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}
	if tree.Root() == nil {
		t.Error("Root() = nil")
	}
}

func TestNewSupervisorTree_NilLoggerUsesAdapter(t *testing.T) {
	tree, err := NewSupervisorTree(nil, TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestNewSupervisorTree_RejectsNegative(t *testing.T) {
	if _, err := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: -time.Second}); err == nil {
		t.Error("NewSupervisorTree() accepted a negative backoff")
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	storageSvc := newMockService("sweeper")
	messagingSvc := newMockService("hub")
	apiSvc := newMockService("http")
	tree.AddStorageService(storageSvc)
	tree.AddMessagingService(messagingSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for _, svc := range []*mockService{storageSvc, messagingSvc, apiSvc} {
		svc := svc
		waitFor(t, func() bool { return svc.starts() == 1 }, svc.name+" start")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("ServeBackground() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, svc := range []*mockService{storageSvc, messagingSvc, apiSvc} {
		if svc.stops() != 1 {
			t.Errorf("%s stops = %d, want 1", svc.name, svc.stops())
		}
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	flaky := newMockService("flaky-sweeper")
	flaky.setFailCount(2)
	steady := newMockService("http")
	tree.AddStorageService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return flaky.starts() >= 3 }, "flaky service restarts")
	if steady.starts() != 1 {
		t.Errorf("steady service restarted %d times, want 1 start", steady.starts())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_PersistentErrorIsContained(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 2,
		FailureBackoff:   20 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	broken := newMockService("hub")
	broken.setError(errors.New("bind failed"))
	api := newMockService("http")
	tree.AddMessagingService(broken)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return broken.starts() >= 2 }, "broken service retries")
	<-errCh

	if api.starts() != 1 {
		t.Errorf("api layer starts = %d, want 1", api.starts())
	}
}
