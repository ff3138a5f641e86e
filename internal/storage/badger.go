// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerConfig holds BadgerDB tuning for BadgerStore.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests and ephemeral runs.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. A nil logger
	// silences BadgerDB entirely.
	Logger *zerolog.Logger
}

// Validate checks the configuration.
func (c *BadgerConfig) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("badger path is required unless in_memory is set")
	}
	return nil
}

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens (or creates) a BadgerDB database.
func OpenBadger(cfg *BadgerConfig) (*BadgerStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid badger config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	if cfg.Logger != nil {
		opts.Logger = &badgerLogger{logger: cfg.Logger.With().Str("component", "badger").Logger()}
	} else {
		opts.Logger = nil
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already open database. The store takes
// ownership and closes db on Close.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, Remove(key))
}

// Apply implements Store. All mutations share one read-write transaction.
func (s *BadgerStore) Apply(ctx context.Context, mutations ...Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	if err := validateMutations(mutations); err != nil {
		return err
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, m := range mutations {
			if m.IfMatch != nil {
				if err := matchValue(txn, m); err != nil {
					return err
				}
			}
			if m.Delete {
				if err := txn.Delete([]byte(m.Key)); err != nil {
					return fmt.Errorf("delete %q: %w", m.Key, err)
				}
				continue
			}
			if err := txn.SetEntry(badger.NewEntry([]byte(m.Key), m.Value)); err != nil {
				return fmt.Errorf("set %q: %w", m.Key, err)
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		err = ErrConflict
	}
	if err != nil {
		return fmt.Errorf("apply %d mutations: %w", len(mutations), err)
	}
	return nil
}

// matchValue checks the precondition of a conditional mutation inside
// txn. The read also registers the key for badger's commit-time conflict
// detection.
func matchValue(txn *badger.Txn, m Mutation) error {
	item, err := txn.Get([]byte(m.Key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("get %q: %w", m.Key, err)
	}
	current, err := item.ValueCopy(nil)
	if err != nil {
		return fmt.Errorf("read %q: %w", m.Key, err)
	}
	if !bytes.Equal(current, m.IfMatch) {
		return ErrConflict
	}
	return nil
}

// Scan implements Store. Matching pairs are copied out of the read
// transaction before fn runs, so fn may write to the store.
func (s *BadgerStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	type pair struct {
		key   string
		value []byte
	}
	var pairs []pair

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %q: %w", item.Key(), err)
			}
			pairs = append(pairs, pair{key: string(item.KeyCopy(nil)), value: value})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %q: %w", prefix, err)
	}

	for _, p := range pairs {
		if err := fn(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// RunGC implements GarbageCollector. It runs value log GC until BadgerDB
// reports nothing left to rewrite.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.db.Opts().InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// badgerLogger forwards BadgerDB's printf-style logging to zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}
