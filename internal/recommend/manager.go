// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

// maxUserIDLength bounds user IDs embedded in storage keys.
const maxUserIDLength = 128

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Provider Provider
	Store    storage.Store
	Logger   zerolog.Logger

	// Clock defaults to time.Now.
	Clock Clock

	// Observer is optional.
	Observer Observer
}

func (d *Dependencies) validate() error {
	if d.Provider == nil {
		return fmt.Errorf("provider is required")
	}
	if a, ok := d.Provider.(Adapters); ok {
		if a.Catalog == nil || a.Generator == nil || a.Trending == nil {
			return fmt.Errorf("adapters must set catalog, generator and trending")
		}
	}
	if d.Store == nil {
		return fmt.Errorf("store is required")
	}
	return nil
}

// Manager routes requests to per-user orchestrators, creating them on
// first refresh. At most MaxSessions are kept; the least recently used
// idle sessions are dropped first, and sessions unused for SessionIdleTTL
// are dropped when a new one is created. A session with a running
// refresh is never dropped. Persisted caches and ledgers outlive their
// session.
type Manager struct {
	cfg  *Config
	deps Dependencies

	mu       sync.Mutex
	sessions map[string]*session
	lru      *list.List
}

// session is a Manager entry. refs counts callers currently using orch.
type session struct {
	orch     *Orchestrator
	elem     *list.Element
	lastUsed time.Time
	refs     int
}

// NewManager validates cfg and deps and returns a Manager.
func NewManager(cfg *Config, deps Dependencies) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend dependencies: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Manager{
		cfg:      cfg.Clone(),
		deps:     deps,
		sessions: make(map[string]*session),
		lru:      list.New(),
	}, nil
}

// ValidateUserID rejects IDs that are empty, too long, or contain
// whitespace or control characters.
func ValidateUserID(userID string) error {
	if userID == "" || len(userID) > maxUserIDLength {
		return ErrInvalidUserID
	}
	if strings.IndexFunc(userID, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return ErrInvalidUserID
	}
	return nil
}

// Session returns the orchestrator for userID, creating it and loading
// its ledger on first use.
func (m *Manager) Session(ctx context.Context, userID string) (*Orchestrator, error) {
	s, err := m.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.release(s)
	return s.orch, nil
}

// acquire returns the session for userID, creating it if needed, and
// holds it against eviction until release.
func (m *Manager) acquire(ctx context.Context, userID string) (*session, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.deps.Clock()
	if s, ok := m.sessions[userID]; ok {
		m.touchLocked(s, now)
		s.refs++
		return s, nil
	}

	s := &session{
		orch:     NewOrchestrator(ctx, userID, m.cfg, m.deps),
		lastUsed: now,
		refs:     1,
	}
	s.elem = m.lru.PushFront(s)
	m.sessions[userID] = s
	m.evictLocked(now)
	metrics.SetActiveSessions(len(m.sessions))
	return s, nil
}

func (m *Manager) release(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
}

// lookup returns the live orchestrator for userID without creating one.
func (m *Manager) lookup(userID string) *Orchestrator {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	m.touchLocked(s, m.deps.Clock())
	return s.orch
}

func (m *Manager) touchLocked(s *session, now time.Time) {
	s.lastUsed = now
	m.lru.MoveToFront(s.elem)
}

// evictLocked drops sessions from the cold end while the manager is over
// capacity or they have been idle too long. Held and refreshing sessions
// are skipped.
func (m *Manager) evictLocked(now time.Time) {
	for e := m.lru.Back(); e != nil; {
		prev := e.Prev()
		s := e.Value.(*session)

		over := len(m.sessions) > m.cfg.MaxSessions
		idle := m.cfg.SessionIdleTTL > 0 && now.Sub(s.lastUsed) >= m.cfg.SessionIdleTTL
		if !over && !idle {
			return
		}
		if s.refs == 0 && !s.orch.busy() {
			m.lru.Remove(e)
			delete(m.sessions, s.orch.UserID())
			m.deps.Logger.Debug().
				Str("user_id", s.orch.UserID()).
				Bool("idle", idle).
				Msg("Dropped recommendation session")
		}
		e = prev
	}
}

// Refresh runs a refresh cycle for userID. The only error is
// ErrInvalidUserID; every other failure is absorbed into the snapshot.
func (m *Manager) Refresh(ctx context.Context, userID string, history []models.WatchedItem, force bool) (Snapshot, error) {
	s, err := m.acquire(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	defer m.release(s)
	return s.orch.Refresh(ctx, history, force), nil
}

// Snapshot returns the current state for userID. A user without a live
// session reads as idle; no session is created.
func (m *Manager) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	if err := ValidateUserID(userID); err != nil {
		return Snapshot{}, err
	}
	if o := m.lookup(userID); o != nil {
		return o.Snapshot(), nil
	}
	return idleSnapshot(userID), nil
}

// Ledger returns the proposed-titles ledger for userID. Without a live
// session the persisted ledger is read directly.
func (m *Manager) Ledger(ctx context.Context, userID string) (LedgerSnapshot, error) {
	if err := ValidateUserID(userID); err != nil {
		return LedgerSnapshot{}, err
	}
	if o := m.lookup(userID); o != nil {
		return o.Ledger().Snapshot(ctx), nil
	}
	return readLedgerSnapshot(ctx, m.deps.Store, userID, m.cfg.LedgerTTL, m.deps.Clock(), m.deps.Logger), nil
}

// Sessions returns the number of live sessions.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Config returns a copy of the active configuration.
func (m *Manager) Config() *Config {
	return m.cfg.Clone()
}
