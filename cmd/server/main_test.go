// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package main

import (
	"testing"

	"github.com/tomtom215/cinemetrics/internal/config"
	"github.com/tomtom215/cinemetrics/internal/storage"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "memory"}}

	store, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer store.Close()

	if _, ok := store.(*storage.MemoryStore); !ok {
		t.Errorf("openStore() = %T, want *storage.MemoryStore", store)
	}
}

func TestOpenStore_Badger(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "badger", Path: t.TempDir()}}

	store, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	if _, ok := store.(*storage.BadgerStore); !ok {
		t.Errorf("openStore() = %T, want *storage.BadgerStore", store)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "redis"}}

	if _, err := openStore(cfg); err == nil {
		t.Error("openStore() expected error for unknown backend")
	}
}
