// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

// Ledger remembers every title the generator proposed to one user so
// they are excluded from later prompts. Trending results never enter the
// ledger.
//
// Membership only excludes titles from generated suggestions. A ledger
// title may still appear in the trending list; trending is never
// filtered against the ledger.
//
// The ledger only grows until LedgerTTL passes without a write; then it
// is discarded as a whole and starts empty. In-memory state changes only
// after the corresponding storage write succeeded.
type Ledger struct {
	store  storage.Store
	ttl    time.Duration
	clock  Clock
	logger zerolog.Logger

	// writeMu serializes stage/apply/commit sequences.
	writeMu sync.Mutex

	mu        sync.RWMutex
	userID    string
	loaded    bool
	titles    []string
	index     map[string]struct{}
	createdAt time.Time
}

// NewLedger creates an empty ledger. Call InitializeForUser before use.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLedger(store storage.Store, ttl time.Duration, clock Clock, logger zerolog.Logger) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{
		store:  store,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
		index:  make(map[string]struct{}),
	}
}

// InitializeForUser loads the persisted ledger for userID. Missing,
// corrupt and expired records all yield an empty ledger; corrupt and
// expired records are deleted from storage. A storage read failure also
// yields an empty ledger and the load is retried on next use.
func (l *Ledger) InitializeForUser(ctx context.Context, userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.userID = userID
	l.loadLocked(ctx)
}

func (l *Ledger) resetLocked() {
	l.titles = nil
	l.index = make(map[string]struct{})
	l.createdAt = time.Time{}
}

func (l *Ledger) loadLocked(ctx context.Context) {
	l.resetLocked()
	l.loaded = false
	key := LedgerKey(l.userID)

	raw, err := l.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		l.loaded = true
		return
	}
	if err != nil {
		l.logger.Warn().Err(err).Str("user_id", l.userID).Msg("Failed to read recommendation ledger, starting empty")
		return
	}

	rec, status := inspectRecord[ledgerRecord](raw, l.clock(), l.ttl)
	if status != recordValid {
		l.logger.Info().
			Str("user_id", l.userID).
			Str("reason", string(status)).
			Msg("Discarding recommendation ledger")
		metrics.RecordLedgerDiscard(string(status))
		if err := l.store.Apply(ctx, storage.RemoveIfUnchanged(key, raw)); err != nil && !errors.Is(err, storage.ErrConflict) {
			l.logger.Warn().Err(err).Str("user_id", l.userID).Msg("Failed to delete recommendation ledger")
		}
		l.loaded = true
		return
	}

	for _, title := range rec.Titles {
		l.addLocked(title)
	}
	l.createdAt = rec.createdAt()
	l.loaded = true
}

func (l *Ledger) addLocked(title string) {
	if title == "" {
		return
	}
	if _, ok := l.index[title]; ok {
		return
	}
	l.index[title] = struct{}{}
	l.titles = append(l.titles, title)
}

// ensureFreshLocked retries a failed load and drops a ledger whose window
// lapsed while it was held in memory.
func (l *Ledger) ensureFreshLocked(ctx context.Context) {
	if !l.loaded {
		l.loadLocked(ctx)
		return
	}
	if !l.createdAt.IsZero() && IsExpired(l.createdAt, l.clock(), l.ttl) {
		l.resetLocked()
	}
}

// Exclusions returns the ledger titles, sorted, for use as a prompt
// exclusion list.
func (l *Ledger) Exclusions(ctx context.Context) []string {
	l.mu.Lock()
	l.ensureFreshLocked(ctx)
	out := make([]string, len(l.titles))
	copy(out, l.titles)
	l.mu.Unlock()

	sort.Strings(out)
	return out
}

// Contains reports whether title is in the ledger.
func (l *Ledger) Contains(title string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[title]
	return ok
}

// Len returns the number of titles in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.titles)
}

// Snapshot returns a read-only view of the ledger in insertion order.
func (l *Ledger) Snapshot(ctx context.Context) LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureFreshLocked(ctx)

	snap := LedgerSnapshot{
		UserID: l.userID,
		Titles: append([]string{}, l.titles...),
	}
	if !l.createdAt.IsZero() {
		snap.UpdatedAt = l.createdAt
		snap.ExpiresAt = l.createdAt.Add(l.ttl)
	}
	return snap
}

// RecordRecommended adds titles to the ledger for userID and persists it
// with a fresh timestamp. Switching to a different user reloads first.
func (l *Ledger) RecordRecommended(ctx context.Context, userID string, titles []string) error {
	l.mu.Lock()
	if l.userID != userID {
		l.userID = userID
		l.loadLocked(ctx)
	}
	l.mu.Unlock()

	return l.commit(ctx, titles)
}

// ledgerUpdate is a staged ledger write.
type ledgerUpdate struct {
	userID    string
	titles    []string
	createdAt time.Time
	mutation  storage.Mutation
}

// stage computes the ledger that results from adding titles without
// changing in-memory state.
func (l *Ledger) stage(ctx context.Context, titles []string) (ledgerUpdate, error) {
	l.mu.Lock()
	l.ensureFreshLocked(ctx)
	userID := l.userID
	merged := make([]string, len(l.titles), len(l.titles)+len(titles))
	copy(merged, l.titles)
	seen := make(map[string]struct{}, len(l.index)+len(titles))
	for k := range l.index {
		seen[k] = struct{}{}
	}
	l.mu.Unlock()

	if userID == "" {
		return ledgerUpdate{}, ErrInvalidUserID
	}

	for _, title := range titles {
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		merged = append(merged, title)
	}

	now := l.clock()
	raw, err := encodeRecord(ledgerRecord{Titles: merged, Timestamp: now.UnixMilli()})
	if err != nil {
		return ledgerUpdate{}, fmt.Errorf("encode ledger: %w", err)
	}

	return ledgerUpdate{
		userID:    userID,
		titles:    merged,
		createdAt: now,
		mutation:  storage.Put(LedgerKey(userID), raw),
	}, nil
}

// apply installs a staged update after its storage write succeeded.
func (l *Ledger) apply(update ledgerUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if update.userID != l.userID {
		return
	}
	l.resetLocked()
	for _, title := range update.titles {
		l.addLocked(title)
	}
	l.createdAt = update.createdAt
	l.loaded = true
	metrics.RecordLedgerSize(len(l.titles))
}

// commit adds titles and writes the ledger together with extra in one
// storage transaction. Nothing in memory changes if the write fails.
func (l *Ledger) commit(ctx context.Context, titles []string, extra ...storage.Mutation) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	update, err := l.stage(ctx, titles)
	if err != nil {
		return err
	}

	batch := make([]storage.Mutation, 0, len(extra)+1)
	batch = append(batch, extra...)
	batch = append(batch, update.mutation)
	if err := l.store.Apply(ctx, batch...); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	l.apply(update)
	return nil
}

// readLedgerSnapshot reads the persisted ledger for userID without
// loading a session. Storage is never modified; missing, corrupt and
// expired records read as empty.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func readLedgerSnapshot(ctx context.Context, store storage.Store, userID string, ttl time.Duration, now time.Time, logger zerolog.Logger) LedgerSnapshot {
	snap := LedgerSnapshot{UserID: userID, Titles: []string{}}

	raw, err := store.Get(ctx, LedgerKey(userID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to read recommendation ledger")
		}
		return snap
	}

	rec, status := inspectRecord[ledgerRecord](raw, now, ttl)
	if status != recordValid {
		return snap
	}

	seen := make(map[string]struct{}, len(rec.Titles))
	for _, title := range rec.Titles {
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		snap.Titles = append(snap.Titles, title)
	}
	createdAt := rec.createdAt()
	snap.UpdatedAt = createdAt
	snap.ExpiresAt = createdAt.Add(ttl)
	return snap
}
