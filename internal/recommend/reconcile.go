// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/models"
)

// lookupResult holds the outcome for one suggestion, addressed by index.
type lookupResult struct {
	entry *models.CatalogEntry
	err   error
}

// reconcile resolves every suggestion through the catalog concurrently
// and keeps the top match of each, in suggestion order. Suggestions with
// no match are dropped. A lookup that fails is dropped too, unless every
// lookup failed, in which case the catalog is treated as unavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func reconcile(ctx context.Context, catalog Catalog, suggestions []models.Suggestion, concurrency int, logger zerolog.Logger) ([]models.CatalogEntry, error) {
	if len(suggestions) == 0 {
		return []models.CatalogEntry{}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]lookupResult, len(suggestions))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range suggestions {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = lookupOne(ctx, catalog, suggestions[idx].Title)
		}(i)
	}
	wg.Wait()

	entries := make([]models.CatalogEntry, 0, len(suggestions))
	failures := 0
	var lastErr error
	for i, res := range results {
		switch {
		case res.err != nil:
			failures++
			lastErr = res.err
			metrics.RecordCatalogMatch("error")
			logger.Debug().Err(res.err).Str("title", suggestions[i].Title).Msg("Catalog lookup failed, dropping suggestion")
		case res.entry == nil:
			metrics.RecordCatalogMatch("miss")
		default:
			metrics.RecordCatalogMatch("hit")
			entries = append(entries, *res.entry)
		}
	}

	if failures == len(suggestions) {
		return nil, fmt.Errorf("%w: %d of %d lookups failed: %w", ErrCatalogUnavailable, failures, len(suggestions), lastErr)
	}
	return entries, nil
}

// lookupOne runs a single lookup and converts a panic into an error so
// one misbehaving lookup cannot take down the process.
func lookupOne(ctx context.Context, catalog Catalog, title string) (res lookupResult) {
	defer func() {
		if r := recover(); r != nil {
			res = lookupResult{err: fmt.Errorf("%w: catalog lookup: %v", ErrAdapterPanic, r)}
		}
	}()

	matches, err := catalog.LookupByTitle(ctx, title)
	if err != nil {
		return lookupResult{err: err}
	}
	if len(matches) == 0 {
		return lookupResult{}
	}
	top := matches[0]
	return lookupResult{entry: &top}
}
