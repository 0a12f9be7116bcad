// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package middleware provides the HTTP middleware that the API router installs
around every route.

Key Components:

  - RequestID: reuses or generates X-Request-ID and stores it in the logging
    context so every log line for the request carries request_id
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern; 429 responses also count as rate limit hits
  - LatencyTracker: a fixed-size ring of recent requests summarized per
    route (p50/p95/p99) for the health endpoint, with slow request warnings

All middleware has the chi signature func(http.Handler) http.Handler. Route
patterns are read after the inner handler returns, which is when chi has
resolved them, so the middleware must sit inside a chi router.

Example:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(tracker.Middleware)
*/
package middleware
