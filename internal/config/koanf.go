// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/eventsieve/config.yaml",
	"/etc/eventsieve/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first and then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Upstream: UpstreamConfig{
			URL:               "https://www.meetup.com/gql",
			RecommendedURL:    "https://www.meetup.com/gql2",
			Timeout:           15 * time.Second,
			Operation:         "eventKeywordSearch",
			Lat:               43.7400016784668,
			Lon:               -79.36000061035156,
			City:              "Toronto",
			State:             "ON",
			Country:           "ca",
			Zip:               "M5M3M2",
			Timezone:          "US/Eastern",
			EventType:         "PHYSICAL",
			PageSize:          20,
			UserAgent:         "eventsieve/1.0",
			RequestsPerSecond: 5,
			Burst:             5,
			Retry: RetryConfig{
				MaxAttempts: 1, // retries are opt-in
				BaseDelay:   500 * time.Millisecond,
				MaxDelay:    10 * time.Second,
			},
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Cache: CacheConfig{
			Backend:       "memory",
			TTL:           20 * time.Minute,
			SweepInterval: time.Minute,
			Capacity:      1000,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			DB:      0,
			Prefix:  "eventsieve:results:",
			Timeout: 2 * time.Second,
		},
		Engine: EngineConfig{
			MaxUpstreamPages: 50,
			ExcludeTerms:     []string{},
			TechQueries:      []string{"tech events", "programming", "coding"},
		},
		Warmer: WarmerConfig{
			Enabled:  false,
			Schedule: "*/15 * * * *",
			PerPage:  3,
			Pages:    2,
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			Endpoint:      "localhost:4317",
			ServiceName:   "eventsieve",
			SamplingRatio: 1.0,
			Insecure:      true,
		},
	}
}

// Load reads configuration using Koanf with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// UPSTREAM_URL -> upstream.url
	// CACHE_TTL -> cache.ttl
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, preferring
// CONFIG_PATH, or an empty string when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"engine.exclude_terms",
	"engine.tech_queries",
}

// processSliceFields converts comma-separated env values into slices. Values
// that already are slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Upstream
	"upstream_url":                 "upstream.url",
	"upstream_recommended_url":     "upstream.recommended_url",
	"upstream_timeout":             "upstream.timeout",
	"upstream_operation":           "upstream.operation",
	"upstream_lat":                 "upstream.lat",
	"upstream_lon":                 "upstream.lon",
	"upstream_city":                "upstream.city",
	"upstream_state":               "upstream.state",
	"upstream_country":             "upstream.country",
	"upstream_zip":                 "upstream.zip",
	"upstream_timezone":            "upstream.timezone",
	"upstream_event_type":          "upstream.event_type",
	"upstream_page_size":           "upstream.page_size",
	"upstream_user_agent":          "upstream.user_agent",
	"upstream_cookie":              "upstream.cookie",
	"upstream_requests_per_second": "upstream.requests_per_second",
	"upstream_burst":               "upstream.burst",

	"upstream_retry_max_attempts": "upstream.retry.max_attempts",
	"upstream_retry_base_delay":   "upstream.retry.base_delay",
	"upstream_retry_max_delay":    "upstream.retry.max_delay",

	"upstream_breaker_max_requests":  "upstream.breaker.max_requests",
	"upstream_breaker_interval":      "upstream.breaker.interval",
	"upstream_breaker_timeout":       "upstream.breaker.timeout",
	"upstream_breaker_min_requests":  "upstream.breaker.min_requests",
	"upstream_breaker_failure_ratio": "upstream.breaker.failure_ratio",

	// Cache
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.ttl",
	"cache_sweep_interval": "cache.sweep_interval",
	"cache_capacity":       "cache.capacity",

	// Redis
	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"redis_prefix":   "redis.prefix",
	"redis_timeout":  "redis.timeout",

	// Engine
	"engine_max_upstream_pages": "engine.max_upstream_pages",
	"engine_exclude_terms":      "engine.exclude_terms",
	"engine_tech_queries":       "engine.tech_queries",

	// Warmer
	"warmer_enabled":  "warmer.enabled",
	"warmer_schedule": "warmer.schedule",
	"warmer_per_page": "warmer.per_page",
	"warmer_pages":    "warmer.pages",

	// Telemetry
	"otel_enabled":        "telemetry.enabled",
	"otel_endpoint":       "telemetry.endpoint",
	"otel_service_name":   "telemetry.service_name",
	"otel_sampling_ratio": "telemetry.sampling_ratio",
	"otel_insecure":       "telemetry.insecure",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// to "" so koanf skips it.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - UPSTREAM_RETRY_MAX_ATTEMPTS -> upstream.retry.max_attempts
//   - REDIS_ADDR -> redis.addr
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
