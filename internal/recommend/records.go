// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package recommend

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinemetrics/internal/models"
)

// Storage key prefixes. The formats are shared with records written by
// earlier clients and must not change.
const (
	CacheKeyPrefix  = "ai_recs_"
	LedgerKeyPrefix = "previously_recommended_"
)

// CacheKey returns the storage key of a user's cached personalized list.
func CacheKey(userID string) string { return CacheKeyPrefix + userID }

// LedgerKey returns the storage key of a user's proposed-titles ledger.
func LedgerKey(userID string) string { return LedgerKeyPrefix + userID }

// IsExpired reports whether a record created at createdAt has outlived
// ttl. A record exactly ttl old is still valid.
func IsExpired(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) > ttl
}

// cachedRecommendations is the persisted personalized list. Timestamp is
// Unix milliseconds.
type cachedRecommendations struct {
	HistoryLength int                   `json:"historyLength"`
	Data          []models.CatalogEntry `json:"data"`
	Timestamp     int64                 `json:"timestamp"`
}

func (c *cachedRecommendations) valid() bool {
	return c.Data != nil && c.Timestamp > 0 && c.HistoryLength >= 0
}

func (c *cachedRecommendations) createdAt() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// ledgerRecord is the persisted proposed-titles ledger.
type ledgerRecord struct {
	Titles    []string `json:"titles"`
	Timestamp int64    `json:"timestamp"`
}

func (l *ledgerRecord) valid() bool {
	return l.Titles != nil && l.Timestamp > 0
}

func (l *ledgerRecord) createdAt() time.Time {
	return time.UnixMilli(l.Timestamp)
}

// record is implemented by pointers to persisted record types.
type record[T any] interface {
	*T
	valid() bool
	createdAt() time.Time
}

// decodeRecord parses raw into T. ok is false when raw is not JSON of the
// expected shape or required fields are missing; callers treat that as
// absent and discard the stored value.
func decodeRecord[T any, PT record[T]](raw []byte) (rec T, ok bool) {
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, false
	}
	if !PT(&rec).valid() {
		var zero T
		return zero, false
	}
	return rec, true
}

// recordStatus classifies a stored value.
type recordStatus string

const (
	recordValid   recordStatus = "valid"
	recordCorrupt recordStatus = "corrupt"
	recordExpired recordStatus = "expired"
)

// inspectRecord decodes raw and checks it against ttl.
func inspectRecord[T any, PT record[T]](raw []byte, now time.Time, ttl time.Duration) (T, recordStatus) {
	rec, ok := decodeRecord[T, PT](raw)
	if !ok {
		return rec, recordCorrupt
	}
	if IsExpired(PT(&rec).createdAt(), now, ttl) {
		return rec, recordExpired
	}
	return rec, recordValid
}

func encodeRecord(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
