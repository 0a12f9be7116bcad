// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Upstream GraphQL fetches
// - Accumulation loop behaviour and filter drop rates
// - Result cache efficiency
// - Upstream circuit breaker state

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream Metrics
	UpstreamPagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_upstream_pages_fetched_total",
			Help: "Upstream pages fetched, by GraphQL operation and outcome",
		},
		[]string{"operation", "status"}, // status: "success", "error"
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventsieve_upstream_fetch_duration_seconds",
			Help:    "Duration of a single upstream page fetch, including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_upstream_retries_total",
			Help: "Upstream request retries after a transient failure",
		},
		[]string{"operation", "reason"}, // reason: "network", "rate_limited", "server_error"
	)

	// Engine Metrics
	AccumulationPages = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventsieve_accumulation_pages",
			Help:    "Upstream pages consumed by one accumulation run",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 50},
		},
		[]string{"operation"},
	)

	AccumulationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_accumulation_outcomes_total",
			Help: "Accumulation runs by terminal state",
		},
		[]string{"outcome"}, // "done", "failed", "cancelled", "page_cap"
	)

	RecordsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_records_filtered_total",
			Help: "Records dropped by the filter pipeline",
		},
		[]string{"reason"}, // "closed", "attending", "excluded_term", "duplicate"
	)

	WarmerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_warmer_runs_total",
			Help: "Scheduled cache warm runs",
		},
		[]string{"result"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "lfu", "redis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries in cache",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsieve_cache_errors_total",
			Help: "Cache backend failures that forced a direct upstream fetch",
		},
		[]string{"cache_type", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamFetch records one upstream page fetch.
func RecordUpstreamFetch(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamPagesFetched.WithLabelValues(operation, status).Inc()
	UpstreamFetchDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordUpstreamRetry records a retry attempt and its cause.
func RecordUpstreamRetry(operation, reason string) {
	UpstreamRetries.WithLabelValues(operation, reason).Inc()
}

// RecordAccumulation records the terminal state of one accumulation run.
func RecordAccumulation(operation, outcome string, pages int) {
	AccumulationOutcomes.WithLabelValues(outcome).Inc()
	if pages > 0 {
		AccumulationPages.WithLabelValues(operation).Observe(float64(pages))
	}
}

// RecordFiltered adds n dropped records under reason. Zero is ignored.
func RecordFiltered(reason string, n int) {
	if n <= 0 {
		return
	}
	RecordsFiltered.WithLabelValues(reason).Add(float64(n))
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(cacheType, operation string) {
	CacheErrors.WithLabelValues(cacheType, operation).Inc()
}

// RecordWarmerRun records the outcome of a scheduled warm run.
func RecordWarmerRun(err error) {
	if err != nil {
		WarmerRuns.WithLabelValues("error").Inc()
		return
	}
	WarmerRuns.WithLabelValues("success").Inc()
}
