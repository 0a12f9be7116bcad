// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Upstream and engine:
  - eventsieve_upstream_pages_fetched_total{operation,status}
  - eventsieve_upstream_fetch_duration_seconds{operation}
  - eventsieve_upstream_retries_total{operation,reason}
  - eventsieve_accumulation_pages{operation}
  - eventsieve_accumulation_outcomes_total{outcome}
  - eventsieve_records_filtered_total{reason}
  - eventsieve_warmer_runs_total{result}

Cache:
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total{cache_type}
  - eventsieve_cache_errors_total{cache_type,operation}

Circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Testing

Tests read collectors with prometheus/testutil and compare deltas, since the
default registry is shared across the test binary.
*/
package metrics
