// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateLogging,
		c.validateUpstream,
		c.validateCache,
		c.validateEngine,
		c.validateWarmer,
		c.validateTelemetry,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be at least 1")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.hasWildcardCORS() && len(c.Security.CORSOrigins) > 1 {
		return fmt.Errorf("CORS_ORIGINS cannot mix * with explicit origins")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether a production deployment allows every
// origin.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

var validEventTypes = map[string]bool{
	"PHYSICAL": true,
	"ONLINE":   true,
}

func (c *Config) validateUpstream() error {
	u := &c.Upstream

	if err := validateEndpointURL(u.URL, "UPSTREAM_URL"); err != nil {
		return err
	}
	if err := validateEndpointURL(u.RecommendedURL, "UPSTREAM_RECOMMENDED_URL"); err != nil {
		return err
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if u.Operation == "" {
		return fmt.Errorf("UPSTREAM_OPERATION is required")
	}
	if u.Lat < -90 || u.Lat > 90 || u.Lon < -180 || u.Lon > 180 {
		return fmt.Errorf("UPSTREAM_LAT/UPSTREAM_LON out of range: %v,%v", u.Lat, u.Lon)
	}
	if _, err := time.LoadLocation(u.Timezone); err != nil {
		return fmt.Errorf("UPSTREAM_TIMEZONE %q is not a known zone: %w", u.Timezone, err)
	}
	if !validEventTypes[strings.ToUpper(u.EventType)] {
		return fmt.Errorf("UPSTREAM_EVENT_TYPE must be PHYSICAL or ONLINE")
	}
	if u.PageSize < 1 || u.PageSize > 100 {
		return fmt.Errorf("UPSTREAM_PAGE_SIZE must be between 1 and 100")
	}
	if u.RequestsPerSecond < 0 {
		return fmt.Errorf("UPSTREAM_REQUESTS_PER_SECOND cannot be negative")
	}
	if u.RequestsPerSecond > 0 && u.Burst < 1 {
		return fmt.Errorf("UPSTREAM_BURST must be at least 1 when rate limiting is enabled")
	}

	if u.Retry.MaxAttempts < 1 {
		return fmt.Errorf("UPSTREAM_RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if u.Retry.MaxAttempts > 1 && (u.Retry.BaseDelay <= 0 || u.Retry.MaxDelay < u.Retry.BaseDelay) {
		return fmt.Errorf("UPSTREAM_RETRY_BASE_DELAY must be positive and not exceed UPSTREAM_RETRY_MAX_DELAY")
	}

	if u.Breaker.FailureRatio <= 0 || u.Breaker.FailureRatio > 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if u.Breaker.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

var validCacheBackends = map[string]bool{
	"memory": true,
	"lfu":    true,
	"redis":  true,
	"none":   true,
}

func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, lfu, redis, none")
	}
	if c.Cache.Backend == "none" {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be positive")
	}
	if c.Cache.Backend == "lfu" && c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1 for the lfu backend")
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.MaxUpstreamPages < 1 {
		return fmt.Errorf("ENGINE_MAX_UPSTREAM_PAGES must be at least 1")
	}
	if len(c.Engine.TechQueries) == 0 {
		return fmt.Errorf("ENGINE_TECH_QUERIES must list at least one query")
	}
	return nil
}

func (c *Config) validateWarmer() error {
	if !c.Warmer.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Warmer.Schedule); err != nil {
		return fmt.Errorf("WARMER_SCHEDULE %q is not a valid cron expression: %w", c.Warmer.Schedule, err)
	}
	if c.Warmer.PerPage < 1 || c.Warmer.PerPage > c.API.MaxPageSize {
		return fmt.Errorf("WARMER_PER_PAGE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	if c.Warmer.Pages < 1 {
		return fmt.Errorf("WARMER_PAGES must be at least 1")
	}
	if c.Cache.Backend == "none" {
		return fmt.Errorf("WARMER_ENABLED requires a cache backend")
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	if !c.Telemetry.Enabled {
		return nil
	}
	if c.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT is required when OTEL_ENABLED=true")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be between 0 and 1")
	}
	return nil
}
