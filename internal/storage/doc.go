// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package storage provides the durable key-value store backing per-user
recommendation state.

Two implementations satisfy Store:

  - BadgerStore: BadgerDB on disk (or in memory), used in production
  - MemoryStore: a map guarded by a mutex, used in tests and ephemeral runs

Values are opaque byte slices. Callers own the encoding.

Atomicity:
Apply writes a batch of mutations in a single transaction. Either every
mutation becomes visible or none does. The recommendation core relies on
this to persist a cached result and the ledger of proposed titles
together.

Example:

	store, err := storage.OpenBadger(&storage.BadgerConfig{Path: "/data/cinemetrics"})
	if err != nil {
	    return err
	}
	defer store.Close()

	err = store.Apply(ctx,
	    storage.Put("ai_recs_42", payload),
	    storage.Put("previously_recommended_42", ledger),
	)
*/
package storage
