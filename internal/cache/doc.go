// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package cache provides a bounded, thread-safe in-memory cache with
per-entry expiry and least-recently-used eviction.

It memoizes catalog title lookups so the same suggestion resolved by
several users within a short window costs one upstream request.

Example:

	c := cache.New[[]models.CatalogEntry](cache.Config{
	    TTL:      6 * time.Hour,
	    Capacity: 5000,
	    Name:     "catalog_lookup",
	})
	defer c.Close()

	c.Set("search:heat", entries)
	if entries, ok := c.Get("search:heat"); ok {
	    // use entries
	}

Expired entries are removed lazily on access and by a background cleanup
loop that stops on Close.
*/
package cache
