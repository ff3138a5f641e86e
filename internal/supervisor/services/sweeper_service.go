// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/recommend"
)

// Sweeper is satisfied by *recommend.Sweeper.
type Sweeper interface {
	Sweep(ctx context.Context) (recommend.SweepStats, error)
}

// SweeperServiceConfig holds configuration for the sweeper service.
type SweeperServiceConfig struct {
	// Interval between sweeps. Defaults to one hour.
	Interval time.Duration

	// SweepOnStartup runs a sweep before the first tick.
	SweepOnStartup bool

	// Timeout bounds a single sweep. Defaults to ten minutes.
	Timeout time.Duration
}

// SweeperService periodically removes expired ledgers and corrupt records
// from the store. A failed sweep is logged and retried on the next tick;
// it never restarts the service.
type SweeperService struct {
	sweeper Sweeper
	config  SweeperServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewSweeperService creates a new sweeper service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSweeperService(sweeper Sweeper, cfg SweeperServiceConfig, logger zerolog.Logger) *SweeperService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &SweeperService{
		sweeper: sweeper,
		config:  cfg,
		logger:  logger.With().Str("service", "storage-sweeper").Logger(),
		name:    "storage-sweeper",
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("sweep_on_startup", s.config.SweepOnStartup).
		Msg("storage sweeper starting")

	if s.config.SweepOnStartup {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SweeperService) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	stats, err := s.sweeper.Sweep(sweepCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Msg("storage sweep failed")
		return
	}

	s.logger.Info().
		Int("ledgers_scanned", stats.LedgersScanned).
		Int("ledgers_expired", stats.LedgersExpired).
		Int("ledgers_corrupt", stats.LedgersCorrupt).
		Int("caches_scanned", stats.CachesScanned).
		Int("caches_corrupt", stats.CachesCorrupt).
		Bool("gc", stats.GarbageCollected).
		Dur("duration", stats.Duration).
		Msg("storage sweep complete")
}

// String implements fmt.Stringer for suture logging.
func (s *SweeperService) String() string {
	return s.name
}
