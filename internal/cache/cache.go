// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/tomtom215/cinemetrics/internal/metrics"
)

// Config configures a Cache.
type Config struct {
	// TTL is the default lifetime of an entry.
	TTL time.Duration

	// Capacity bounds the number of entries. Zero means unbounded.
	Capacity int

	// CleanupInterval is how often expired entries are purged.
	// Zero defaults to TTL/2, capped at 5 minutes.
	CleanupInterval time.Duration

	// Name labels the cache in metrics. Empty disables metrics.
	Name string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache is a TTL cache with LRU eviction.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is most recently used
	ttl      time.Duration
	capacity int
	name     string
	now      func() time.Time
	stats    Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its cleanup loop.
func New[V any](cfg Config) *Cache[V] {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Cache[V]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		ttl:      cfg.TTL,
		capacity: cfg.Capacity,
		name:     cfg.Name,
		now:      cfg.Now,
		stop:     make(chan struct{}),
	}

	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = cfg.TTL / 2
		if interval > 5*time.Minute || interval <= 0 {
			interval = 5 * time.Minute
		}
	}
	go c.cleanupLoop(interval)
	return c
}

// Get returns the value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.recordLocked(false)
		return zero, false
	}
	e := el.Value.(*entry[V])
	if c.now().After(e.expiresAt) {
		c.removeLocked(el)
		c.recordLocked(false)
		return zero, false
	}
	c.order.MoveToFront(el)
	c.recordLocked(true)
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	if c.capacity > 0 && c.order.Len() > c.capacity {
		c.removeLocked(c.order.Back())
		c.stats.Evictions++
	}
	c.reportSizeLocked()
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
		c.reportSizeLocked()
	}
}

// Len returns the number of entries, expired ones included until purged.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a copy of the cache statistics.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.order.Len()
	return s
}

// HitRate returns the hit rate as a percentage.
func (c *Cache[V]) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Purge removes expired entries and returns how many were removed.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry[V]).expiresAt) {
			c.removeLocked(el)
			removed++
		}
		el = prev
	}
	if removed > 0 {
		c.reportSizeLocked()
	}
	return removed
}

// Close stops the cleanup loop. The cache remains usable.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.items, e.key)
}

func (c *Cache[V]) recordLocked(hit bool) {
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	if c.name != "" {
		metrics.RecordCacheAccess(c.name, hit)
	}
}

func (c *Cache[V]) reportSizeLocked() {
	if c.name != "" {
		metrics.SetCacheEntries(c.name, c.order.Len())
	}
}
