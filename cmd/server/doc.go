// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package main is the EventSieve HTTP server.

EventSieve searches an event provider's GraphQL API, accumulates pages
until enough filtered events exist for the requested page, caches the
accumulation and serves it as cursor-paginated JSON.

# Startup

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Telemetry: OpenTelemetry OTLP exporter when OTEL_ENABLED=true
 4. Cache: memory, lfu, redis or none
 5. Upstream: GraphQL client behind a rate limiter, circuit breaker and retry
 6. Engine: accumulation, filtering and pagination
 7. Supervisor tree: cache sweeper, cache warmer, HTTP server

# Configuration

	HTTP_PORT=8080               # listen port
	HTTP_TIMEOUT=30s             # per-request deadline on search routes
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	CACHE_BACKEND=memory         # memory, lfu, redis or none
	CACHE_TTL=20m
	REDIS_ADDR=localhost:6379    # redis backend only
	UPSTREAM_TIMEZONE=US/Eastern # calendar days for /recommended and /today
	ENGINE_EXCLUDE_TERMS=crypto,nft
	WARMER_ENABLED=true
	OTEL_ENABLED=false

See package config for the full list.

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to HTTP_TIMEOUT, the warmer finishes its current
run and telemetry is flushed.

# Example

	CACHE_BACKEND=redis REDIS_ADDR=redis:6379 LOG_FORMAT=console ./eventsieve-server
	curl -s 'localhost:8080/tech-events?page=1&per_page=3'
*/
package main
