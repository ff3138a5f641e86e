// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("storage: store is closed")

	// ErrEmptyKey is returned when a mutation or lookup has no key.
	ErrEmptyKey = errors.New("storage: empty key")

	// ErrConflict is returned by Apply when a conditional mutation found
	// a different value than expected. Nothing in the batch is written.
	ErrConflict = errors.New("storage: value changed")
)

// Mutation is a single write inside an atomic batch.
type Mutation struct {
	Key    string
	Value  []byte
	Delete bool

	// IfMatch, when non-nil, makes the batch conditional on Key currently
	// holding exactly these bytes.
	IfMatch []byte
}

// Put returns a mutation that stores value under key.
func Put(key string, value []byte) Mutation {
	return Mutation{Key: key, Value: value}
}

// Remove returns a mutation that deletes key.
func Remove(key string) Mutation {
	return Mutation{Key: key, Delete: true}
}

// RemoveIfUnchanged returns a mutation that deletes key only if it still
// holds current.
func RemoveIfUnchanged(key string, current []byte) Mutation {
	if current == nil {
		current = []byte{}
	}
	return Mutation{Key: key, Delete: true, IfMatch: current}
}

// Store is a string-keyed byte store.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Apply commits all mutations atomically.
	Apply(ctx context.Context, mutations ...Mutation) error

	// Scan calls fn for every key with the given prefix, in key order.
	// fn may call other Store methods. Returning an error stops the scan.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	// Close releases resources held by the store.
	Close() error
}

// GarbageCollector is implemented by stores that need periodic
// reclamation of space left behind by overwritten values.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

func validateMutations(mutations []Mutation) error {
	for _, m := range mutations {
		if m.Key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
