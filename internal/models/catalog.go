// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package models

// MediaType identifies the kind of catalog entry.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// IsSupported reports whether the media type is one the application tracks.
// Catalog results for people, collections and similar are discarded.
func (m MediaType) IsSupported() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// CatalogEntry is a single catalog search or trending result.
// Field names follow the TMDB v3 wire format so entries can be cached and
// served to clients unchanged. The recommendation core treats the value as
// opaque.
type CatalogEntry struct {
	ID            int64     `json:"id"`
	MediaType     MediaType `json:"media_type"`
	Title         string    `json:"title,omitempty"`
	Name          string    `json:"name,omitempty"` // TV shows use name instead of title
	OriginalTitle string    `json:"original_title,omitempty"`
	OriginalName  string    `json:"original_name,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	PosterPath    string    `json:"poster_path,omitempty"`
	BackdropPath  string    `json:"backdrop_path,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	FirstAirDate  string    `json:"first_air_date,omitempty"`
	VoteAverage   float64   `json:"vote_average,omitempty"`
	Popularity    float64   `json:"popularity,omitempty"`
	GenreIDs      []int     `json:"genre_ids,omitempty"`
}

// DisplayTitle returns the title for movies and the name for TV shows.
func (c CatalogEntry) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Suggestion is a single title proposed by the recommendation generator.
// It has no persistent identity and lives for one refresh cycle.
type Suggestion struct {
	Title  string `json:"title" validate:"required,notblank,printable,max=512"`
	Reason string `json:"reason"`
}
