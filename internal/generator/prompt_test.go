// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package generator

import (
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/cinemetrics/internal/models"
)

func TestLikedTitles_OrderAndLimit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []models.WatchedItem{
		{Title: "old", Rating: 4, WatchedAt: base},
		{Title: "undated", Rating: 5},
		{Title: "newest", Rating: 3, WatchedAt: base.Add(48 * time.Hour)},
		{Title: "disliked", Rating: 2, WatchedAt: base.Add(72 * time.Hour)},
		{Title: "middle", Rating: 5, WatchedAt: base.Add(24 * time.Hour)},
	}

	got := likedTitles(items, 3, 0)
	want := []string{"newest", "middle", "old", "undated"}
	if len(got) != len(want) {
		t.Fatalf("likedTitles() returned %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Errorf("likedTitles()[%d] = %q, want %q", i, got[i].Title, want[i])
		}
	}

	if got := likedTitles(items, 3, 2); len(got) != 2 || got[1].Title != "middle" {
		t.Errorf("likedTitles(limit=2) = %+v", got)
	}
}

func TestLikedTitles_CapsAtFifty(t *testing.T) {
	items := make([]models.WatchedItem, 80)
	for i := range items {
		items[i] = models.WatchedItem{Title: "t" + strconv.Itoa(i), Rating: 5}
	}
	if got := likedTitles(items, DefaultMinRating, DefaultHistoryLimit); len(got) != 50 {
		t.Errorf("likedTitles() returned %d items, want 50", len(got))
	}
}

func TestPromptHistory(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mixed := []models.WatchedItem{
		{Title: "liked", Rating: 4, WatchedAt: base},
		{Title: "unrated", WatchedAt: base.Add(time.Hour)},
	}
	if got := promptHistory(mixed, 3, 0); len(got) != 1 || got[0].Title != "liked" {
		t.Errorf("promptHistory(mixed) = %+v, want only liked", got)
	}

	unrated := []models.WatchedItem{
		{Title: "a", WatchedAt: base},
		{Title: "b", WatchedAt: base.Add(time.Hour)},
		{Title: "c", Rating: 2, WatchedAt: base.Add(2 * time.Hour)},
	}
	got := promptHistory(unrated, 3, 2)
	if len(got) != 2 || got[0].Title != "c" || got[1].Title != "b" {
		t.Errorf("promptHistory(unrated, limit=2) = %+v, want most recent two", got)
	}
}

func TestExclusionList(t *testing.T) {
	full := []models.WatchedItem{{Title: "Heat"}, {Title: "heat "}, {Title: "Dune"}}
	got := exclusionList(full, []string{"Arrival", "", "  "})

	want := []string{"Arrival", "Dune", "Heat"}
	if len(got) != len(want) {
		t.Fatalf("exclusionList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exclusionList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"bare array", `[{"title":"A","reason":"r"}]`, 1},
		{"json fence", "```json\n[{\"title\":\"A\"},{\"title\":\"B\"}]\n```", 2},
		{"plain fence", "```\n[]\n```", 0},
		{"prose around array", "Here you go:\n[{\"title\":\"A\"}]\nEnjoy!", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestions(tt.content)
			if err != nil {
				t.Fatalf("parseSuggestions() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("parseSuggestions() returned %d, want %d", len(got), tt.want)
			}
		})
	}
}
