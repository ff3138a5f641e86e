// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, capacity int) (*Cache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](Config{TTL: time.Minute, Capacity: capacity, Now: clock.Now, CleanupInterval: time.Hour})
	t.Cleanup(c.Close)
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() found a missing key")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", c.HitRate())
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t, 0)
	c.Set("k", "v")

	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired at exactly its TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy expiry", c.Len())
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	c, clock := newTestCache(t, 0)
	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)
	if removed := c.Purge(); removed != 1 {
		t.Errorf("Purge() removed %d, want 1", removed)
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long-lived entry purged")
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a becomes most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCache_OverwriteDoesNotGrow(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("k", "1")
	c.Set("k", "2")

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if got, _ := c.Get("k"); got != "2" {
		t.Errorf("Get() = %q, want 2", got)
	}
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("k", "v")
	c.Delete("k")
	c.Delete("never-set")

	if _, ok := c.Get("k"); ok {
		t.Error("deleted key still present")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c, _ := newTestCache(t, 50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", (worker*j)%100)
				c.Set(key, key)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New[int](Config{TTL: time.Minute})
	c.Close()
	c.Close()
}
