// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/models"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/storage"
	ws "github.com/tomtom215/cinemetrics/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

// stubProvider resolves every suggested title to a single catalog entry.
type stubProvider struct {
	mu          sync.Mutex
	suggestions []string
	generateErr error
	calls       int
}

func (p *stubProvider) Generate(ctx context.Context, eligible, full []models.WatchedItem, exclude []string) ([]models.Suggestion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.generateErr != nil {
		return nil, p.generateErr
	}
	out := make([]models.Suggestion, 0, len(p.suggestions))
	for _, title := range p.suggestions {
		out = append(out, models.Suggestion{Title: title, Reason: "similar"})
	}
	return out, nil
}

func (p *stubProvider) LookupByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error) {
	return []models.CatalogEntry{{ID: int64(len(title)), MediaType: models.MediaTypeMovie, Title: title}}, nil
}

func (p *stubProvider) FetchTrending(ctx context.Context) ([]models.CatalogEntry, error) {
	return []models.CatalogEntry{
		{ID: 1, MediaType: models.MediaTypeMovie, Title: "Trending One"},
		{ID: 2, MediaType: models.MediaTypeTV, Name: "Trending Two"},
	}, nil
}

// stubBreaker reports a fixed breaker state.
type stubBreaker string

func (b stubBreaker) BreakerState() string { return string(b) }

// testServer bundles a router over a real manager and memory store.
type testServer struct {
	provider *stubProvider
	store    *storage.MemoryStore
	manager  *recommend.Manager
	hub      *ws.Hub
	handler  http.Handler
}

type serverOption func(*HandlerConfig, *ChiMiddlewareConfig)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	ts := &testServer{
		provider: &stubProvider{suggestions: []string{"Arrival", "Heat", "Alien"}},
		store:    storage.NewMemoryStore(),
		hub:      ws.NewHub(),
	}

	manager, err := recommend.NewManager(recommend.DefaultConfig(), recommend.Dependencies{
		Provider: ts.provider,
		Store:    ts.store,
		Logger:   zerolog.Nop(),
		Observer: ts.hub,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	ts.manager = manager

	hcfg := HandlerConfig{
		Recommender: manager,
		Store:       ts.store,
		Hub:         ts.hub,
		Breakers: map[string]BreakerReporter{
			"tmdb":       stubBreaker("closed"),
			"openrouter": stubBreaker("closed"),
		},
		Version: "test",
	}
	mcfg := DefaultChiMiddlewareConfig()
	mcfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	mcfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&hcfg, mcfg)
	}

	ts.handler = NewRouter(NewHandler(hcfg), NewChiMiddleware(mcfg)).Setup()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeSnapshot(t *testing.T, env envelope) recommend.Snapshot {
	t.Helper()
	var snap recommend.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func refreshBody(t *testing.T, history []models.WatchedItem, force bool) []byte {
	t.Helper()
	body, err := json.Marshal(RefreshRequest{History: history, Force: force})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return body
}

func sampleHistory() []models.WatchedItem {
	now := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)
	return []models.WatchedItem{
		{ID: "1", Title: "Blade Runner", Rating: 5, Genres: []string{"Sci-Fi"}, WatchedAt: now},
		{ID: "2", Title: "Dune", Rating: 4, WatchedAt: now.Add(-time.Hour)},
		{ID: "3", Title: "Sicario", Rating: 4, WatchedAt: now.Add(-2 * time.Hour), Status: models.StatusHistory},
		{ID: "4", Title: "Past Lives", Status: models.StatusWatchlist},
	}
}

var errGeneratorDown = errors.New("generator down")
