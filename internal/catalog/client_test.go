// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cinemetrics/internal/upstream"
)

const searchBody = `{"page":1,"results":[
	{"id":27205,"media_type":"movie","title":"Inception","poster_path":"/i.jpg"},
	{"id":525,"media_type":"person","name":"Christopher Nolan"},
	{"id":1396,"media_type":"tv","name":"Breaking Bad"}
],"total_pages":1,"total_results":3}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:  baseURL,
		APIKey:   "test-key",
		Language: "vi-VN",
		Timeout:  5 * time.Second,
	}
}

func TestClient_SearchMulti(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("path = %s, want /search/multi", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "Inception" || q.Get("include_adult") != "false" || q.Get("api_key") != "test-key" {
			t.Errorf("query params = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	entries, err := NewClient(testConfig(server.URL)).SearchMulti(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("SearchMulti() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("SearchMulti() returned %d entries, want 2 (person filtered)", len(entries))
	}
	if entries[0].ID != 27205 || entries[1].DisplayTitle() != "Breaking Bad" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestClient_SearchMulti_EmptyQuery(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	entries, err := NewClient(testConfig(server.URL)).SearchMulti(context.Background(), "   ")
	if err != nil || len(entries) != 0 {
		t.Errorf("SearchMulti(blank) = %v, %v", entries, err)
	}
	if calls.Load() != 0 {
		t.Error("blank query reached the server")
	}
}

func TestClient_Trending(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/all/week" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("language"); got != "vi-VN" {
			t.Errorf("language = %q, want vi-VN", got)
		}
		_, _ = w.Write([]byte(searchBody))
	})

	entries, err := NewClient(testConfig(server.URL)).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Trending() returned %d entries, want 2", len(entries))
	}
}

func TestClient_HTTPError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	_, err := NewClient(testConfig(server.URL)).SearchMulti(context.Background(), "Heat")
	var se *upstream.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("SearchMulti() error = %v, want 401 StatusError", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	if _, err := NewClient(testConfig(server.URL)).Trending(context.Background()); err == nil {
		t.Error("Trending() with HTML body succeeded")
	}
}

func TestClient_NotConfigured(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.APIKey = ""

	_, err := NewClient(cfg).SearchMulti(context.Background(), "Heat")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("SearchMulti() error = %v, want ErrNotConfigured", err)
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(&Config{BaseURL: ""})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	c = NewClient(&Config{BaseURL: "http://example.test/3/"})
	if c.baseURL != "http://example.test/3" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
}
