// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

var errUpstream = errors.New("upstream unavailable")

// mockProvider implements Provider for testing.
type mockProvider struct {
	mu sync.Mutex

	generateFn func(ctx context.Context, call int, exclude []string) ([]models.Suggestion, error)
	lookupFn   func(ctx context.Context, title string) ([]models.CatalogEntry, error)
	trendingFn func(ctx context.Context) ([]models.CatalogEntry, error)

	generateCalls int
	trendingCalls int
	excludes      [][]string
	eligibleSizes []int
	fullSizes     []int
}

func (m *mockProvider) Generate(ctx context.Context, eligible, full []models.WatchedItem, exclude []string) ([]models.Suggestion, error) {
	m.mu.Lock()
	m.generateCalls++
	call := m.generateCalls
	m.excludes = append(m.excludes, append([]string(nil), exclude...))
	m.eligibleSizes = append(m.eligibleSizes, len(eligible))
	m.fullSizes = append(m.fullSizes, len(full))
	fn := m.generateFn
	m.mu.Unlock()

	if fn == nil {
		return suggestions("Arrival", "Heat", "Alien"), nil
	}
	return fn(ctx, call, exclude)
}

func (m *mockProvider) LookupByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, title)
	}
	return []models.CatalogEntry{entryFor(title)}, nil
}

func (m *mockProvider) FetchTrending(ctx context.Context) ([]models.CatalogEntry, error) {
	m.mu.Lock()
	m.trendingCalls++
	fn := m.trendingFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return trendingFixture(), nil
}

func (m *mockProvider) generateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls
}

func (m *mockProvider) trendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trendingCalls
}

func (m *mockProvider) lastExclude() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.excludes) == 0 {
		return nil
	}
	return m.excludes[len(m.excludes)-1]
}

// faultyStore wraps MemoryStore and can fail batch writes on demand.
// onGet, when set before use, runs before every read.
type faultyStore struct {
	*storage.MemoryStore
	failApply atomic.Bool
	applies   atomic.Int64
	onGet     func(key string)
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *faultyStore) Apply(ctx context.Context, mutations ...storage.Mutation) error {
	s.applies.Add(1)
	if s.failApply.Load() {
		return errors.New("disk full")
	}
	return s.MemoryStore.Apply(ctx, mutations...)
}

func (s *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.onGet != nil {
		s.onGet(key)
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultyStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, storage.Remove(key))
}

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// snapshotRecorder is an Observer that keeps every published snapshot.
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *snapshotRecorder) Publish(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

func (r *snapshotRecorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.State
	}
	return out
}

// testHarness wires an orchestrator against mocks.
type testHarness struct {
	provider *mockProvider
	store    *faultyStore
	clock    *testClock
	observer *snapshotRecorder
	cfg      *Config
	orch     *Orchestrator
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		provider: &mockProvider{},
		store:    newFaultyStore(),
		clock:    newTestClock(),
		observer: &snapshotRecorder{},
		cfg:      DefaultConfig(),
	}
	h.orch = NewOrchestrator(context.Background(), "user-1", h.cfg, h.deps())
	return h
}

func (h *testHarness) deps() Dependencies {
	return Dependencies{
		Provider: h.provider,
		Store:    h.store,
		Logger:   zerolog.Nop(),
		Clock:    h.clock.Now,
		Observer: h.observer,
	}
}

// reopen creates a fresh orchestrator over the same store, as after a
// process restart.
func (h *testHarness) reopen() {
	h.orch = NewOrchestrator(context.Background(), "user-1", h.cfg, h.deps())
}

func history(n int) []models.WatchedItem {
	items := make([]models.WatchedItem, n)
	for i := range items {
		items[i] = models.WatchedItem{
			ID:     fmt.Sprintf("w%d", i),
			Title:  fmt.Sprintf("Watched %d", i),
			Rating: 4,
			Status: models.StatusHistory,
		}
	}
	return items
}

func suggestions(titles ...string) []models.Suggestion {
	out := make([]models.Suggestion, len(titles))
	for i, title := range titles {
		out[i] = models.Suggestion{Title: title, Reason: "because"}
	}
	return out
}

func entryFor(title string) models.CatalogEntry {
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	return models.CatalogEntry{ID: int64(h.Sum32()), MediaType: models.MediaTypeMovie, Title: title}
}

func trendingFixture() []models.CatalogEntry {
	return []models.CatalogEntry{
		{ID: 1, MediaType: models.MediaTypeMovie, Title: "Trending One"},
		{ID: 2, MediaType: models.MediaTypeTV, Name: "Trending Two"},
	}
}

func titlesOf(entries []models.CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DisplayTitle()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
