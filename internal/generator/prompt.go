// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package generator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/cinemetrics/internal/models"
)

const systemPrompt = "You are a helpful movie recommendation engine. You output valid JSON only."

// likedTitles returns the items rated at least minRating, most recently
// watched first, capped at limit. Items without a timestamp keep their
// relative order after dated ones.
func likedTitles(items []models.WatchedItem, minRating, limit int) []models.WatchedItem {
	liked := make([]models.WatchedItem, 0, len(items))
	for i := range items {
		if items[i].Rating >= minRating {
			liked = append(liked, items[i])
		}
	}

	sort.SliceStable(liked, func(i, j int) bool {
		a, b := liked[i].WatchedAt, liked[j].WatchedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	if limit > 0 && len(liked) > limit {
		liked = liked[:limit]
	}
	return liked
}

// promptHistory returns the liked items of eligible. When nothing is rated
// at least minRating (unrated histories included) it falls back to the most
// recent eligible items so the model still has something to work from.
func promptHistory(eligible []models.WatchedItem, minRating, limit int) []models.WatchedItem {
	if liked := likedTitles(eligible, minRating, limit); len(liked) > 0 {
		return liked
	}
	return likedTitles(eligible, math.MinInt, limit)
}

func formatHistoryLine(item *models.WatchedItem) string {
	genre := "Unknown"
	if len(item.Genres) > 0 {
		genre = strings.Join(item.Genres, ", ")
	}
	return fmt.Sprintf("%s (%d/5 stars) - Genre: %s", item.Title, item.Rating, genre)
}

// exclusionList merges ledger titles with every title in the full history,
// deduplicated case-insensitively and sorted.
func exclusionList(full []models.WatchedItem, exclude []string) []string {
	seen := make(map[string]struct{}, len(full)+len(exclude))
	out := make([]string, 0, len(full)+len(exclude))
	add := func(title string) {
		title = strings.TrimSpace(title)
		key := normalizeTitle(title)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, title)
	}

	for _, title := range exclude {
		add(title)
	}
	for i := range full {
		add(full[i].Title)
	}
	sort.Strings(out)
	return out
}

// buildPrompt renders the user message.
func buildPrompt(liked []models.WatchedItem, excluded []string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on the user's watched movie history below, recommend %d similar movies or TV shows that they haven't watched.\n\n", count)

	b.WriteString("User History:\n")
	for i := range liked {
		b.WriteString(formatHistoryLine(&liked[i]))
		b.WriteByte('\n')
	}

	if len(excluded) > 0 {
		b.WriteString("\nDo NOT recommend any of these titles:\n")
		for _, title := range excluded {
			b.WriteString(title)
			b.WriteByte('\n')
		}
	}

	b.WriteString(`
Return ONLY a JSON array with the following format, no other text:
[
  { "title": "Movie Name 1", "reason": "Short reason why" },
  { "title": "Movie Name 2", "reason": "Short reason why" }
]
The movie title must be the exact English or Original title for TMDB search.
`)
	return b.String()
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
