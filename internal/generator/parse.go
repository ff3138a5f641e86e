// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package generator

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/validation"
)

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON.
func stripFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// parseSuggestions decodes the completion content as a JSON array of
// suggestions. Prose around the array is tolerated.
func parseSuggestions(content string) ([]models.Suggestion, error) {
	text := stripFences(content)
	if !strings.HasPrefix(text, "[") {
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no JSON array in content", ErrMalformedResponse)
		}
		text = text[start : end+1]
	}

	var suggestions []models.Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if suggestions == nil {
		return nil, fmt.Errorf("%w: null array", ErrMalformedResponse)
	}
	return suggestions, nil
}

// filterSuggestions drops invalid items, repeats, and excluded titles,
// keeping model order. Titles are trimmed.
func filterSuggestions(suggestions []models.Suggestion, excluded []string) (kept []models.Suggestion, dropped int) {
	blocked := make(map[string]struct{}, len(excluded)+len(suggestions))
	for _, title := range excluded {
		blocked[normalizeTitle(title)] = struct{}{}
	}

	kept = make([]models.Suggestion, 0, len(suggestions))
	for i := range suggestions {
		s := suggestions[i]
		s.Title = strings.TrimSpace(s.Title)
		s.Reason = strings.TrimSpace(s.Reason)

		if verr := validation.ValidateStruct(&s); verr != nil {
			dropped++
			continue
		}
		key := normalizeTitle(s.Title)
		if _, ok := blocked[key]; ok {
			dropped++
			continue
		}
		blocked[key] = struct{}{}
		kept = append(kept, s)
	}
	return kept, dropped
}
