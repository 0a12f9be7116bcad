// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/eventsieve/internal/logging"
)

// sample is one completed request.
type sample struct {
	route    string
	duration time.Duration
	status   int
}

// RouteLatency summarizes the samples held for one route.
type RouteLatency struct {
	Route    string  `json:"route"`
	Requests int     `json:"requests"`
	Errors   int     `json:"errors"` // 5xx responses
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    int64   `json:"p50_ms"`
	P95Ms    int64   `json:"p95_ms"`
	P99Ms    int64   `json:"p99_ms"`
	MaxMs    int64   `json:"max_ms"`
}

// LatencyTracker keeps the most recent requests in a ring and reports
// per-route percentiles for the health endpoint. Prometheus remains the
// source of truth; this is a quick look without a scraper.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []sample
	next    int
	full    bool
	slow    time.Duration
}

// NewLatencyTracker keeps up to size samples and warns about requests
// slower than slow. A zero slow disables the warning.
func NewLatencyTracker(size int, slow time.Duration) *LatencyTracker {
	if size < 1 {
		size = 1
	}
	return &LatencyTracker{samples: make([]sample, size), slow: slow}
}

func (t *LatencyTracker) record(s sample) {
	t.mu.Lock()
	t.samples[t.next] = s
	t.next++
	if t.next == len(t.samples) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()
}

// Snapshot returns per-route statistics, busiest route first.
func (t *LatencyTracker) Snapshot() []RouteLatency {
	t.mu.Lock()
	n := t.next
	if t.full {
		n = len(t.samples)
	}
	held := make([]sample, n)
	copy(held, t.samples[:n])
	t.mu.Unlock()

	byRoute := make(map[string][]sample)
	for _, s := range held {
		byRoute[s.route] = append(byRoute[s.route], s)
	}

	out := make([]RouteLatency, 0, len(byRoute))
	for route, ss := range byRoute {
		ms := make([]int64, len(ss))
		var sum int64
		errs := 0
		for i, s := range ss {
			ms[i] = s.duration.Milliseconds()
			sum += ms[i]
			if s.status >= http.StatusInternalServerError {
				errs++
			}
		}
		slices.Sort(ms)

		out = append(out, RouteLatency{
			Route:    route,
			Requests: len(ms),
			Errors:   errs,
			AvgMs:    float64(sum) / float64(len(ms)),
			P50Ms:    percentile(ms, 0.50),
			P95Ms:    percentile(ms, 0.95),
			P99Ms:    percentile(ms, 0.99),
			MaxMs:    ms[len(ms)-1],
		})
	}

	slices.SortFunc(out, func(a, b RouteLatency) int {
		if a.Requests != b.Requests {
			return b.Requests - a.Requests
		}
		if a.Route < b.Route {
			return -1
		}
		return 1
	})
	return out
}

// Middleware records every request under its route pattern.
func (t *LatencyTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RoutePattern(r)
		t.record(sample{route: route, duration: elapsed, status: status})

		if t.slow > 0 && elapsed > t.slow {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", elapsed.Milliseconds()).
				Msg("Slow request")
		}
	})
}

// percentile uses nearest-rank on a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
