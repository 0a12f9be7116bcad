// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package config

import (
	"time"
	_ "time/tzdata" // upstream.timezone must resolve on hosts without a zone database
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	fetcher := upstream.NewFetcher(&cfg.Upstream)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Cache     CacheConfig     `koanf:"cache"`
	Redis     RedisConfig     `koanf:"redis"`
	Engine    EngineConfig    `koanf:"engine"`
	Warmer    WarmerConfig    `koanf:"warmer"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging or production
}

// APIConfig holds pagination defaults for the search routes.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// UpstreamConfig describes the event provider's GraphQL API and the
// protections wrapped around it.
//
// Environment Variables:
//   - UPSTREAM_URL: keyword search endpoint (default: https://www.meetup.com/gql)
//   - UPSTREAM_RECOMMENDED_URL: recommendations endpoint (default: https://www.meetup.com/gql2)
//   - UPSTREAM_TIMEOUT: per-request timeout (default: 15s)
//   - UPSTREAM_OPERATION: keyword search operation name (default: eventKeywordSearch)
//   - UPSTREAM_LAT / UPSTREAM_LON: search origin (default: Toronto)
//   - UPSTREAM_CITY, UPSTREAM_STATE, UPSTREAM_COUNTRY, UPSTREAM_ZIP
//   - UPSTREAM_TIMEZONE: zone for date ranges (default: US/Eastern)
//   - UPSTREAM_EVENT_TYPE: PHYSICAL or ONLINE (default: PHYSICAL)
//   - UPSTREAM_PAGE_SIZE: records per upstream page (default: 20)
//   - UPSTREAM_USER_AGENT, UPSTREAM_COOKIE
//   - UPSTREAM_REQUESTS_PER_SECOND / UPSTREAM_BURST: client-side pacing
//   - UPSTREAM_RETRY_MAX_ATTEMPTS: 1 disables retries (default: 1)
//   - UPSTREAM_RETRY_BASE_DELAY / UPSTREAM_RETRY_MAX_DELAY
//   - UPSTREAM_BREAKER_*: circuit breaker tuning
type UpstreamConfig struct {
	URL               string        `koanf:"url"`
	RecommendedURL    string        `koanf:"recommended_url"`
	Timeout           time.Duration `koanf:"timeout"`
	Operation         string        `koanf:"operation"`
	Lat               float64       `koanf:"lat"`
	Lon               float64       `koanf:"lon"`
	City              string        `koanf:"city"`
	State             string        `koanf:"state"`
	Country           string        `koanf:"country"`
	Zip               string        `koanf:"zip"`
	Timezone          string        `koanf:"timezone"`
	EventType         string        `koanf:"event_type"`
	PageSize          int           `koanf:"page_size"`
	UserAgent         string        `koanf:"user_agent"`
	Cookie            string        `koanf:"cookie"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	Retry   RetryConfig   `koanf:"retry"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// RetryConfig controls retries of transient upstream failures.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	BaseDelay   time.Duration `koanf:"base_delay"`
	MaxDelay    time.Duration `koanf:"max_delay"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`  // probes allowed while half-open
	Interval     time.Duration `koanf:"interval"`      // closed-state count reset period
	Timeout      time.Duration `koanf:"timeout"`       // open duration before half-open
	MinRequests  uint32        `koanf:"min_requests"`  // requests before the ratio applies
	FailureRatio float64       `koanf:"failure_ratio"` // trip threshold
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend       string        `koanf:"backend"` // memory, lfu, redis or none
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	Capacity      int           `koanf:"capacity"` // lfu only
}

// RedisConfig holds the redis cache backend connection.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	Timeout  time.Duration `koanf:"timeout"`
}

// EngineConfig tunes the accumulation engine.
type EngineConfig struct {
	MaxUpstreamPages int      `koanf:"max_upstream_pages"`
	ExcludeTerms     []string `koanf:"exclude_terms"`
	TechQueries      []string `koanf:"tech_queries"`
}

// WarmerConfig schedules periodic cache warming of the tech-events feed.
type WarmerConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Schedule string `koanf:"schedule"` // standard 5-field cron expression
	PerPage  int    `koanf:"per_page"`
	Pages    int    `koanf:"pages"`
}

// TelemetryConfig enables OpenTelemetry tracing export.
type TelemetryConfig struct {
	Enabled       bool    `koanf:"enabled"`
	Endpoint      string  `koanf:"endpoint"` // OTLP gRPC host:port
	ServiceName   string  `koanf:"service_name"`
	SamplingRatio float64 `koanf:"sampling_ratio"`
	Insecure      bool    `koanf:"insecure"`
}

// Location resolves the upstream timezone, falling back to UTC when the
// zone database does not know it.
func (u *UpstreamConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(u.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
