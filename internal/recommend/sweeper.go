// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

// SweepStats summarizes one sweep.
type SweepStats struct {
	LedgersScanned   int
	LedgersExpired   int
	LedgersCorrupt   int
	CachesScanned    int
	CachesCorrupt    int
	Skipped          int
	GarbageCollected bool
	Duration         time.Duration
}

// Sweeper removes dead records that no session would ever read again:
// ledgers past their window and records that no longer decode. Intact
// cache entries are left alone even when expired; they are replaced on
// the next successful generation.
type Sweeper struct {
	store  storage.Store
	cfg    *Config
	clock  Clock
	logger zerolog.Logger
}

// NewSweeper creates a Sweeper over store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSweeper(store storage.Store, cfg *Config, clock Clock, logger zerolog.Logger) *Sweeper {
	if clock == nil {
		clock = time.Now
	}
	return &Sweeper{store: store, cfg: cfg, clock: clock, logger: logger}
}

// Sweep performs one pass over the store.
func (s *Sweeper) Sweep(ctx context.Context) (SweepStats, error) {
	start := time.Now()
	var stats SweepStats
	now := s.clock()

	err := s.store.Scan(ctx, LedgerKeyPrefix, func(key string, value []byte) error {
		stats.LedgersScanned++
		_, status := inspectRecord[ledgerRecord](value, now, s.cfg.LedgerTTL)
		if status == recordValid {
			return nil
		}
		removed, err := s.remove(ctx, key, value, &stats)
		if !removed {
			return err
		}
		if status == recordExpired {
			stats.LedgersExpired++
		} else {
			stats.LedgersCorrupt++
		}
		metrics.RecordSweepDeletion("ledger", string(status))
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("sweep ledgers: %w", err)
	}

	err = s.store.Scan(ctx, CacheKeyPrefix, func(key string, value []byte) error {
		stats.CachesScanned++
		if _, ok := decodeRecord[cachedRecommendations](value); ok {
			return nil
		}
		removed, err := s.remove(ctx, key, value, &stats)
		if !removed {
			return err
		}
		stats.CachesCorrupt++
		metrics.RecordSweepDeletion("cache", string(recordCorrupt))
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("sweep caches: %w", err)
	}

	if gc, ok := s.store.(storage.GarbageCollector); ok {
		if err := gc.RunGC(s.cfg.GCDiscardRatio); err != nil {
			s.logger.Warn().Err(err).Msg("Value log GC failed")
		} else {
			stats.GarbageCollected = true
		}
	}

	stats.Duration = time.Since(start)
	metrics.RecordSweep(stats.Duration)
	s.logger.Info().
		Int("ledgers_scanned", stats.LedgersScanned).
		Int("ledgers_expired", stats.LedgersExpired).
		Int("ledgers_corrupt", stats.LedgersCorrupt).
		Int("caches_scanned", stats.CachesScanned).
		Int("caches_corrupt", stats.CachesCorrupt).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("Storage sweep completed")
	return stats, nil
}

// remove deletes key only if it still holds the scanned value. A record
// rewritten since the scan read it is kept and counted as skipped.
func (s *Sweeper) remove(ctx context.Context, key string, scanned []byte, stats *SweepStats) (bool, error) {
	err := s.store.Apply(ctx, storage.RemoveIfUnchanged(key, scanned))
	if errors.Is(err, storage.ErrConflict) {
		s.logger.Debug().Str("key", key).Msg("Record rewritten during sweep, keeping it")
		stats.Skipped++
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
