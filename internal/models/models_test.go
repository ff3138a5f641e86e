// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestWatchedItem_IsWatched(t *testing.T) {
	tests := []struct {
		name   string
		status WatchStatus
		want   bool
	}{
		{"history", StatusHistory, true},
		{"empty status defaults to history", "", true},
		{"watchlist", StatusWatchlist, false},
		{"unknown status", WatchStatus("dropped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := WatchedItem{Title: "Heat", Status: tt.status}
			if got := item.IsWatched(); got != tt.want {
				t.Errorf("IsWatched() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterWatched_PreservesOrder(t *testing.T) {
	items := []WatchedItem{
		{Title: "A", Status: StatusHistory},
		{Title: "B", Status: StatusWatchlist},
		{Title: "C"},
		{Title: "D", Status: StatusHistory},
	}

	got := FilterWatched(items)
	want := []string{"A", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("FilterWatched() returned %d items, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("FilterWatched()[%d] = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestFilterWatched_Empty(t *testing.T) {
	got := FilterWatched(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("FilterWatched(nil) = %v, want empty non-nil slice", got)
	}
}

func TestMediaType_IsSupported(t *testing.T) {
	if !MediaTypeMovie.IsSupported() || !MediaTypeTV.IsSupported() {
		t.Error("movie and tv must be supported")
	}
	if MediaType("person").IsSupported() {
		t.Error("person must not be supported")
	}
}

func TestCatalogEntry_DisplayTitle(t *testing.T) {
	movie := CatalogEntry{ID: 1, MediaType: MediaTypeMovie, Title: "Arrival"}
	show := CatalogEntry{ID: 2, MediaType: MediaTypeTV, Name: "Severance"}

	if got := movie.DisplayTitle(); got != "Arrival" {
		t.Errorf("movie DisplayTitle() = %q", got)
	}
	if got := show.DisplayTitle(); got != "Severance" {
		t.Errorf("show DisplayTitle() = %q", got)
	}
}

func TestCatalogEntry_DecodesTMDBResult(t *testing.T) {
	raw := `{"id":27205,"media_type":"movie","title":"Inception","poster_path":"/p.jpg","genre_ids":[28,878],"vote_average":8.4}`

	var entry CatalogEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if entry.ID != 27205 || entry.MediaType != MediaTypeMovie || entry.PosterPath != "/p.jpg" {
		t.Errorf("decoded entry = %+v", entry)
	}
	if len(entry.GenreIDs) != 2 {
		t.Errorf("GenreIDs = %v, want 2 entries", entry.GenreIDs)
	}
}
