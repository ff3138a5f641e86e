// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

// Refresh outcomes reported to metrics.
const (
	outcomeCacheHit   = "cache_hit"
	outcomeGenerated  = "generated"
	outcomeIneligible = "trending_ineligible"
	outcomeFallback   = "trending_fallback"
	outcomeSuperseded = "superseded"
	outcomeCoalesced  = "coalesced"
)

// Orchestrator owns the recommendation state of a single user.
type Orchestrator struct {
	userID    string
	cfg       *Config
	provider  Provider
	store     storage.Store
	ledger    *Ledger
	clock     Clock
	observer  Observer
	logger    zerolog.Logger
	cycleSeq  atomic.Uint64
	generated atomic.Int64

	// mu guards everything below and serializes commits.
	mu                  sync.Mutex
	state               State
	settled             State
	aiRecommendations   []models.CatalogEntry
	trendingMovies      []models.CatalogEntry
	pending             int
	inflight            int
	lastAIHistoryLength int
	hasFetched          bool
	committedCycle      uint64
	updatedAt           time.Time
}

// cycle carries per-refresh bookkeeping.
type cycle struct {
	id      uint64
	force   bool
	loading bool
	started time.Time
	logger  zerolog.Logger
}

// NewOrchestrator creates the orchestrator for userID and loads its
// ledger. deps must already be validated.
func NewOrchestrator(ctx context.Context, userID string, cfg *Config, deps Dependencies) *Orchestrator {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger.With().Str("user_id", userID).Logger()

	ledger := NewLedger(deps.Store, cfg.LedgerTTL, clock, logger)
	ledger.InitializeForUser(ctx, userID)

	return &Orchestrator{
		userID:   userID,
		cfg:      cfg,
		provider: deps.Provider,
		store:    deps.Store,
		ledger:   ledger,
		clock:    clock,
		observer: deps.Observer,
		logger:   logger,
		state:    StateIdle,
		settled:  StateIdle,
	}
}

// UserID returns the user this orchestrator serves.
func (o *Orchestrator) UserID() string { return o.userID }

// Ledger returns the user's proposed-titles ledger.
func (o *Orchestrator) Ledger() *Ledger { return o.ledger }

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		UserID:              o.userID,
		State:               o.state,
		AIRecommendations:   cloneEntries(o.aiRecommendations),
		TrendingMovies:      cloneEntries(o.trendingMovies),
		IsAILoading:         o.inflight > 0,
		LastAIHistoryLength: o.lastAIHistoryLength,
		HasFetched:          o.hasFetched,
		CycleID:             o.committedCycle,
		UpdatedAt:           o.updatedAt,
	}
}

// idleSnapshot is the state of a user before any refresh.
func idleSnapshot(userID string) Snapshot {
	return Snapshot{
		UserID:            userID,
		State:             StateIdle,
		AIRecommendations: []models.CatalogEntry{},
		TrendingMovies:    []models.CatalogEntry{},
	}
}

func cloneEntries(in []models.CatalogEntry) []models.CatalogEntry {
	if in == nil {
		return []models.CatalogEntry{}
	}
	return slices.Clone(in)
}

// Refresh runs one refresh cycle for history and returns the resulting
// snapshot. It never fails: every error path ends in the trending list.
//
// Once started, a cycle runs to completion even if ctx is cancelled;
// only RefreshTimeout bounds it.
func (o *Orchestrator) Refresh(ctx context.Context, history []models.WatchedItem, force bool) (snap Snapshot) {
	ctx = context.WithoutCancel(ctx)
	if o.cfg.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RefreshTimeout)
		defer cancel()
	}

	c, ok := o.beginCycle(force)
	if !ok {
		o.logger.Debug().Msg("Refresh already running, returning current state")
		metrics.RecordRefresh(outcomeCoalesced, 0)
		return o.Snapshot()
	}
	defer func() {
		r := recover()
		o.endCycle(c, r)
		if r != nil {
			snap = o.Snapshot()
		}
	}()

	watched := models.FilterWatched(history)
	historyLength := len(watched)
	c.logger = c.logger.With().Int("history_length", historyLength).Logger()

	if historyLength < o.cfg.MinHistory {
		c.logger.Debug().Int("min_history", o.cfg.MinHistory).Msg("Not enough watch history, serving trending")
		o.serveTrending(ctx, c, outcomeIneligible)
		return o.Snapshot()
	}

	if !force {
		if recs, hit := o.readCache(ctx, c, historyLength); hit {
			o.serveCached(c, recs, historyLength)
			return o.Snapshot()
		}
	}

	o.markLoading(c)

	recs, titles, err := o.personalize(ctx, c, watched, history)
	if err == nil {
		err = o.commitGenerated(ctx, c, recs, titles, historyLength)
	}
	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			o.discard(c)
			return o.Snapshot()
		}
		c.logger.Warn().Err(err).Msg("Personalized recommendations unavailable, serving trending")
		metrics.RecordFallback(fallbackReason(err))
		o.serveTrending(ctx, c, outcomeFallback)
	}
	return o.Snapshot()
}

// beginCycle allocates a cycle ID. A non-forced refresh is refused while
// any other cycle is running, including one still reading the cache.
func (o *Orchestrator) beginCycle(force bool) (*cycle, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !force && o.pending > 0 {
		return nil, false
	}
	o.pending++
	id := o.cycleSeq.Add(1)
	return &cycle{
		id:      id,
		force:   force,
		started: o.clock(),
		logger:  o.logger.With().Uint64("cycle", id).Bool("force", force).Logger(),
	}, true
}

// endCycle releases the cycle however it ended. A cycle that panicked
// before committing settles on the trending list already held.
func (o *Orchestrator) endCycle(c *cycle, panicked any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending--

	if panicked != nil {
		c.logger.Error().Interface("panic", panicked).Msg("Refresh cycle panicked")
		metrics.RecordFallback("panic")
		if c.id > o.committedCycle {
			_ = o.publishLocked(c, StateReadyTrending, func() {
				if o.trendingMovies == nil {
					o.trendingMovies = []models.CatalogEntry{}
				}
			})
			return
		}
	}

	if !c.loading {
		return
	}
	o.releaseLoadingLocked(c)
	if o.inflight == 0 && o.state == StateLoading {
		o.state = o.settled
	}
	o.notifyLocked()
}

func (o *Orchestrator) releaseLoadingLocked(c *cycle) {
	if c.loading {
		c.loading = false
		o.inflight--
	}
}

func (o *Orchestrator) markLoading(c *cycle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	c.loading = true
	o.inflight++
	o.state = StateLoading
	o.notifyLocked()
}

// publishLocked applies a terminal transition unless a newer cycle has
// already committed. Must be called with mu held.
func (o *Orchestrator) publishLocked(c *cycle, state State, apply func()) error {
	if c.id < o.committedCycle {
		return ErrSuperseded
	}
	apply()
	o.state = state
	o.settled = state
	o.committedCycle = c.id
	o.hasFetched = true
	o.updatedAt = o.clock()
	o.releaseLoadingLocked(c)
	if o.inflight > 0 {
		o.state = StateLoading
	}
	o.notifyLocked()
	return nil
}

// publish is publishLocked for callers not holding mu.
func (o *Orchestrator) publish(c *cycle, state State, apply func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.publishLocked(c, state, apply)
}

func (o *Orchestrator) notifyLocked() {
	if o.observer != nil {
		o.observer.Publish(o.snapshotLocked())
	}
}

// discard records a cycle whose result lost to a newer one.
func (o *Orchestrator) discard(c *cycle) {
	o.mu.Lock()
	committed := o.committedCycle
	o.mu.Unlock()

	c.logger.Info().Uint64("committed_cycle", committed).Msg("Discarding superseded refresh result")
	metrics.RecordRefresh(outcomeSuperseded, o.clock().Sub(c.started))
}

// readCache returns the cached list when it is intact, unexpired and was
// computed for exactly historyLength watched items. A corrupt entry is
// deleted. Stale and expired entries are left for the next write.
func (o *Orchestrator) readCache(ctx context.Context, c *cycle, historyLength int) ([]models.CatalogEntry, bool) {
	key := CacheKey(o.userID)
	raw, err := o.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.RecordCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read recommendation cache")
		metrics.RecordCacheLookup("error")
		return nil, false
	}

	rec, status := inspectRecord[cachedRecommendations](raw, o.clock(), o.cfg.AICacheTTL)
	switch {
	case status == recordCorrupt:
		c.logger.Warn().Msg("Deleting corrupt recommendation cache")
		metrics.RecordCacheLookup("corrupt")
		if err := o.store.Apply(ctx, storage.RemoveIfUnchanged(key, raw)); err != nil && !errors.Is(err, storage.ErrConflict) {
			c.logger.Warn().Err(err).Msg("Failed to delete corrupt recommendation cache")
		}
		return nil, false
	case status == recordExpired:
		metrics.RecordCacheLookup("expired")
		return nil, false
	case rec.HistoryLength != historyLength:
		c.logger.Debug().Int("cached_history_length", rec.HistoryLength).Msg("Recommendation cache is stale")
		metrics.RecordCacheLookup("stale")
		return nil, false
	}

	metrics.RecordCacheLookup("hit")
	return rec.Data, true
}

func (o *Orchestrator) serveCached(c *cycle, recs []models.CatalogEntry, historyLength int) {
	err := o.publish(c, StateReadyAI, func() {
		o.aiRecommendations = recs
		o.lastAIHistoryLength = historyLength
	})
	if err != nil {
		o.discard(c)
		return
	}
	c.logger.Debug().Int("count", len(recs)).Msg("Served cached recommendations")
	metrics.RecordRefresh(outcomeCacheHit, o.clock().Sub(c.started))
}

// personalize asks the generator for suggestions and resolves them.
// It returns the capped list and every proposed title.
func (o *Orchestrator) personalize(ctx context.Context, c *cycle, watched, history []models.WatchedItem) (recs []models.CatalogEntry, titles []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs, titles = nil, nil
			err = fmt.Errorf("%w: %v", ErrAdapterPanic, r)
		}
	}()

	exclude := o.ledger.Exclusions(ctx)
	c.logger.Debug().Int("excluded", len(exclude)).Msg("Requesting suggestions")

	suggestions, err := o.provider.Generate(ctx, watched, history, exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("generate suggestions: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, nil, ErrNoSuggestions
	}

	recs, err = reconcile(ctx, o.provider, suggestions, o.cfg.LookupConcurrency, c.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile suggestions: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil, ErrNoMatches
	}
	if len(recs) > o.cfg.MaxResults {
		recs = recs[:o.cfg.MaxResults]
	}

	titles = make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		titles = append(titles, s.Title)
	}
	return recs, titles, nil
}

// commitGenerated persists the cache entry and the grown ledger in one
// transaction, then publishes. A storage failure leaves memory and
// storage untouched.
func (o *Orchestrator) commitGenerated(ctx context.Context, c *cycle, recs []models.CatalogEntry, titles []string, historyLength int) error {
	raw, err := encodeRecord(cachedRecommendations{
		HistoryLength: historyLength,
		Data:          recs,
		Timestamp:     o.clock().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if c.id < o.committedCycle {
		return ErrSuperseded
	}
	if err := o.ledger.commit(ctx, titles, storage.Put(CacheKey(o.userID), raw)); err != nil {
		return &persistError{err: err}
	}

	err = o.publishLocked(c, StateReadyAI, func() {
		o.aiRecommendations = recs
		o.lastAIHistoryLength = historyLength
	})
	if err != nil {
		return err
	}

	o.generated.Add(1)
	c.logger.Info().
		Int("count", len(recs)).
		Int("proposed", len(titles)).
		Int("ledger_size", o.ledger.Len()).
		Msg("Generated personalized recommendations")
	metrics.RecordRefresh(outcomeGenerated, o.clock().Sub(c.started))
	return nil
}

// serveTrending fetches the trending list and publishes it. A fetch
// failure publishes an empty list.
func (o *Orchestrator) serveTrending(ctx context.Context, c *cycle, outcome string) {
	entries, err := o.fetchTrending(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to fetch trending, serving empty list")
		metrics.RecordTrendingFailure()
		entries = []models.CatalogEntry{}
	}

	err = o.publish(c, StateReadyTrending, func() {
		o.trendingMovies = entries
	})
	if err != nil {
		o.discard(c)
		return
	}
	metrics.RecordRefresh(outcome, o.clock().Sub(c.started))
}

func (o *Orchestrator) fetchTrending(ctx context.Context) (entries []models.CatalogEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("%w: trending: %v", ErrAdapterPanic, r)
		}
	}()
	entries, err = o.provider.FetchTrending(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	return entries, nil
}

// busy reports whether a refresh cycle is running.
func (o *Orchestrator) busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending > 0
}

// GeneratedCount returns how many cycles committed a generated list.
func (o *Orchestrator) GeneratedCount() int64 {
	return o.generated.Load()
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrAdapterPanic):
		return "panic"
	case errors.Is(err, ErrNoSuggestions):
		return "no_suggestions"
	case errors.Is(err, ErrNoMatches):
		return "no_matches"
	case errors.Is(err, ErrCatalogUnavailable):
		return "catalog"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		var pe *persistError
		if errors.As(err, &pe) {
			return "storage"
		}
		return "generator"
	}
}

// persistError marks failures of the cache and ledger write.
type persistError struct{ err error }

func (e *persistError) Error() string { return "persist recommendations: " + e.err.Error() }
func (e *persistError) Unwrap() error { return e.err }
