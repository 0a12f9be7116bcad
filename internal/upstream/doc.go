// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package upstream fetches event pages from the provider's GraphQL API.

Two operations are supported:

  - eventKeywordSearch: free-text search, POSTed with full query text to
    upstream.url
  - recommendedEventsWithSeries: recommendations near the configured origin,
    POSTed as a persisted query to upstream.recommended_url

# Resilience

Each Fetch call runs up to upstream.retry.max_attempts attempts. An attempt
waits on a token-bucket limiter (golang.org/x/time/rate), then executes the
HTTP round trip inside a circuit breaker (sony/gobreaker). Network errors,
HTTP 429 and 5xx responses are retried with exponential backoff; a
Retry-After header lengthens the wait. GraphQL errors, other 4xx responses
and decode failures are returned immediately.

While the breaker is open, Fetch fails fast with an error wrapping
ErrCircuitOpen.

# Normalization

Provider records become models.Event values: RSVP states are mapped onto
the OPEN, CLOSED, NEEDS_APPROVAL and NOT_YET_OPEN set, the attendee count is
read from either schema shape, and a page that reports more results without
an end cursor is treated as the last page.

# Observability

Every Fetch is wrapped in an "upstream.fetch" span and recorded in the
eventsieve_upstream_* metrics. Breaker transitions are logged and exported
through the circuit_breaker_* metrics.
*/
package upstream
