// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/eventsieve/internal/cache"
	"github.com/tomtom215/eventsieve/internal/middleware"
	"github.com/tomtom215/eventsieve/internal/models"
)

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}})

	rec, env := do(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
		t.Errorf("404: status = %d, error = %+v", rec.Code, env.Error)
	}

	rec, env = do(t, h, http.MethodDelete, "/tech-events", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("405: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Type":              "application/json; charset=utf-8",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/meetup/search", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if got := preflight("https://events.example.com").Header().Get("Access-Control-Allow-Origin"); got != "https://events.example.com" {
		t.Errorf("allowed origin: Access-Control-Allow-Origin = %q", got)
	}
	if got := preflight("https://evil.example.com").Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin: Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 2
	h := newTestRouter(cfg, HandlerDeps{Searcher: &fakeSearcher{}})

	for i := 0; i < 2; i++ {
		if rec, _ := do(t, h, http.MethodGet, "/tech-events", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec, env := do(t, h, http.MethodGet, "/tech-events", "")
	if rec.Code != http.StatusTooManyRequests || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}

	// Health has its own budget.
	if rec, _ := do(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 1
	cfg.Security.RateLimitDisabled = true
	h := newTestRouter(cfg, HandlerDeps{Searcher: &fakeSearcher{}})

	for i := 0; i < 5; i++ {
		if rec, _ := do(t, h, http.MethodGet, "/tech-events", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}})
	do(t, h, http.MethodGet, "/tech-events", "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `api_requests_total{endpoint="/tech-events"`) {
		t.Error("metrics output is missing the tech-events request counter")
	}
}

func TestHealth(t *testing.T) {
	lt := middleware.NewLatencyTracker(10, 0)
	ran := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := newTestRouter(testConfig(), HandlerDeps{
		Searcher: &fakeSearcher{},
		Warmer:   fakeWarmer{at: ran, err: errors.New("upstream failure")},
		Latency:  lt,
		Version:  "1.2.3",
	})

	do(t, h, http.MethodGet, "/tech-events", "")
	rec, env := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d", rec.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "healthy" || status.Version != "1.2.3" || status.Environment != "test" {
		t.Errorf("status = %+v", status)
	}
	if status.Warmer == nil || status.Warmer.LastRun == nil || !status.Warmer.LastRun.Equal(ran) || status.Warmer.Error != "upstream failure" {
		t.Errorf("warmer = %+v", status.Warmer)
	}
	found := false
	for _, r := range status.Routes {
		if r.Route == "/tech-events" {
			found = true
		}
	}
	if !found {
		t.Errorf("routes = %+v", status.Routes)
	}
}

func TestHealth_CacheStats(t *testing.T) {
	store := cache.NewMemoryStore(cache.New(time.Minute), "memory")
	ctx := context.Background()
	if err := store.Set(ctx, "k", &models.AccumulatedResult{}, 0); err != nil {
		t.Fatal(err)
	}
	_, _, _ = store.Get(ctx, "k")
	_, _, _ = store.Get(ctx, "missing")

	h := newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}, Cache: store})
	_, env := do(t, h, http.MethodGet, "/health", "")

	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Cache == nil {
		t.Fatal("cache stats missing")
	}
	if status.Cache.Entries != 1 || status.Cache.Hits != 1 || status.Cache.Misses != 1 || status.Cache.HitRate != 50 {
		t.Errorf("cache = %+v", *status.Cache)
	}

	// Backends without counters are left out.
	h = newTestRouter(testConfig(), HandlerDeps{Searcher: &fakeSearcher{}, Cache: fakeStore{}})
	_, env = do(t, h, http.MethodGet, "/health", "")
	status = HealthStatus{}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.Cache != nil {
		t.Errorf("cache = %+v, want omitted", *status.Cache)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name          string
		deps          HandlerDeps
		wantStatus    int
		wantCircuit   string
		wantBackend   string
		wantReachable bool
	}{
		{
			name:        "no dependencies wired",
			deps:        HandlerDeps{},
			wantStatus:  http.StatusOK,
			wantCircuit: "unknown",
			wantBackend: "none",
		},
		{
			name:          "closed circuit and reachable cache",
			deps:          HandlerDeps{Breaker: fakeBreaker("closed"), Cache: fakeStore{}},
			wantStatus:    http.StatusOK,
			wantCircuit:   "closed",
			wantBackend:   "redis",
			wantReachable: true,
		},
		{
			name:        "unreachable cache is still ready",
			deps:        HandlerDeps{Breaker: fakeBreaker("half-open"), Cache: fakeStore{pingErr: errors.New("dial tcp: refused")}},
			wantStatus:  http.StatusOK,
			wantCircuit: "half-open",
			wantBackend: "redis",
		},
		{
			name:          "open circuit is not ready",
			deps:          HandlerDeps{Breaker: fakeBreaker("open"), Cache: fakeStore{}},
			wantStatus:    http.StatusServiceUnavailable,
			wantCircuit:   "open",
			wantBackend:   "redis",
			wantReachable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.deps.Searcher = &fakeSearcher{}
			h := newTestRouter(testConfig(), tt.deps)

			rec, env := do(t, h, http.MethodGet, "/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Success != (tt.wantStatus == http.StatusOK) {
				t.Errorf("success = %v", env.Success)
			}

			var status ReadinessStatus
			if err := json.Unmarshal(env.Data, &status); err != nil {
				t.Fatal(err)
			}
			if status.Upstream != tt.wantCircuit || status.Cache.Backend != tt.wantBackend || status.Cache.Reachable != tt.wantReachable {
				t.Errorf("status = %+v", status)
			}
			if status.Ready != (tt.wantStatus == http.StatusOK) {
				t.Errorf("ready = %v", status.Ready)
			}
		})
	}
}
