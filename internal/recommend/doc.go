// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

// Package recommend decides, for one user at a time, which list of titles
// to show: a cached personalized list, a freshly generated one, or the
// platform-wide trending list.
//
// # Refresh Cycle
//
// Each call to Orchestrator.Refresh runs one cycle:
//
//  1. Filter the history down to watched items
//  2. Below MinHistory watched items, serve trending and stop
//  3. Unless forced, serve a fresh cache entry whose history length
//     matches exactly
//  4. Snapshot the ledger of previously proposed titles
//  5. Ask the Generator for suggestions (excluding the ledger), resolve
//     each one through the Catalog concurrently, keep input order, cap
//     the result, then persist the cache entry and the grown ledger in a
//     single storage transaction
//  6. If anything in step 5 fails, serve trending instead
//
// Refresh never returns an error. Adapter failures, storage failures and
// panics inside step 5 all end in the trending fallback. A trending
// failure produces an empty trending list.
//
// # Persistence
//
// Two records per user live in the Store:
//
//	ai_recs_<userID>                  {"historyLength":n,"data":[...],"timestamp":ms}
//	previously_recommended_<userID>   {"titles":[...],"timestamp":ms}
//
// Cache entries expire after AICacheTTL (7 days) and are invalidated by
// any change in watched-history length. The ledger uses a sliding window:
// every write resets its timestamp, and once LedgerTTL (30 days) passes
// without a write the whole ledger is dropped.
//
// # Concurrency
//
// Every cycle gets a monotonically increasing ID. State writes happen
// under a single mutex and a cycle may not overwrite state committed by a
// newer cycle. A non-forced Refresh issued while a cycle is generating is
// coalesced into a no-op that returns the current snapshot. A forced
// Refresh always starts a new cycle that supersedes the running one.
//
// # Usage
//
//	mgr, err := recommend.NewManager(recommend.DefaultConfig(), recommend.Dependencies{
//	    Provider: recommend.Adapters{Catalog: tmdb, Generator: llm, Trending: tmdb},
//	    Store:    store,
//	    Logger:   logging.WithComponent("recommend"),
//	})
//
//	snap, err := mgr.Refresh(ctx, userID, history, false)
package recommend
