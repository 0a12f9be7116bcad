// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package config provides centralized configuration management for EventSieve.

Configuration is layered with Koanf v2. Built-in defaults are loaded first,
then an optional YAML file, then environment variables. The merged result is
validated once and is read-only afterwards.

# Configuration Sources

  - Defaults: defaultConfig() in koanf.go
  - File: CONFIG_PATH, or the first of config.yaml, config.yml,
    /etc/eventsieve/config.yaml, /etc/eventsieve/config.yml
  - Environment: the variables listed below

# Environment Variables

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development, staging or production

API (APIConfig):
  - API_DEFAULT_PAGE_SIZE: per_page when omitted (default: 10)
  - API_MAX_PAGE_SIZE: largest accepted per_page (default: 100)

Security (SecurityConfig):
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-IP limit (default: 100 per 1m)
  - DISABLE_RATE_LIMIT: turn the limiter off
  - CORS_ORIGINS: comma-separated allowed origins (default: *)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller information

Upstream (UpstreamConfig): see the UpstreamConfig type.

Cache (CacheConfig, RedisConfig):
  - CACHE_BACKEND: memory, lfu, redis or none (default: memory)
  - CACHE_TTL: accumulated result lifetime (default: 20m)
  - CACHE_SWEEP_INTERVAL: expired entry sweep period (default: 1m)
  - CACHE_CAPACITY: lfu entry limit (default: 1000)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX, REDIS_TIMEOUT

Engine (EngineConfig):
  - ENGINE_MAX_UPSTREAM_PAGES: page cap per accumulation (default: 50)
  - ENGINE_EXCLUDE_TERMS: comma-separated title terms to drop
  - ENGINE_TECH_QUERIES: comma-separated queries merged by /tech-events

Warmer (WarmerConfig):
  - WARMER_ENABLED, WARMER_SCHEDULE (cron), WARMER_PER_PAGE, WARMER_PAGES

Telemetry (TelemetryConfig):
  - OTEL_ENABLED, OTEL_ENDPOINT, OTEL_SERVICE_NAME, OTEL_SAMPLING_RATIO,
    OTEL_INSECURE

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Configuration error: %v", err)
	}
	loc := cfg.Upstream.Location()

# Validation

Validate reports the first problem found, naming the environment variable
that controls the offending field. Load refuses to return an invalid
configuration.
*/
package config
