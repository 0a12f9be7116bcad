// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/eventsieve/internal/cache"
	"github.com/tomtom215/eventsieve/internal/middleware"
)

// cachePingTimeout bounds the readiness probe of the cache backend.
const cachePingTimeout = 2 * time.Second

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version,omitempty"`
	Environment string                    `json:"environment,omitempty"`
	Uptime      float64                   `json:"uptime_seconds"`
	Cache       *cache.StoreStats         `json:"cache,omitempty"`
	Warmer      *WarmerStatus             `json:"warmer,omitempty"`
	Routes      []middleware.RouteLatency `json:"routes,omitempty"`
}

// WarmerStatus reports the last cache warm run.
type WarmerStatus struct {
	LastRun *time.Time `json:"last_run,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// ReadinessStatus is the readiness payload.
type ReadinessStatus struct {
	Ready    bool        `json:"ready"`
	Upstream string      `json:"upstream_circuit"`
	Cache    CacheStatus `json:"cache"`
}

// CacheStatus reports the result cache backend.
type CacheStatus struct {
	Backend   string `json:"backend"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// Health handles GET /health. It reports process liveness and never
// checks dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:      "healthy",
		Version:     h.deps.Version,
		Environment: h.config.Server.Environment,
		Uptime:      time.Since(h.startTime).Seconds(),
	}

	if sr, ok := h.deps.Cache.(interface{ Stats() cache.StoreStats }); ok {
		st := sr.Stats()
		status.Cache = &st
	}
	if h.deps.Warmer != nil {
		ws := &WarmerStatus{}
		last, err := h.deps.Warmer.LastRun()
		if !last.IsZero() {
			ws.LastRun = &last
		}
		if err != nil {
			ws.Error = err.Error()
		}
		status.Warmer = ws
	}
	if h.deps.Latency != nil {
		status.Routes = h.deps.Latency.Snapshot()
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthReady handles GET /health/ready. The service is not ready while
// the upstream circuit is open, since every search would fail. An
// unreachable cache is reported but does not fail readiness: the engine
// falls back to direct fetches.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadinessStatus{Ready: true, Upstream: "unknown"}

	if h.deps.Breaker != nil {
		status.Upstream = h.deps.Breaker.BreakerState()
		if status.Upstream == "open" {
			status.Ready = false
		}
	}

	if store := h.deps.Cache; store != nil {
		status.Cache.Backend = store.Name()
		ctx, cancel := context.WithTimeout(r.Context(), cachePingTimeout)
		err := store.Ping(ctx)
		cancel()
		status.Cache.Reachable = err == nil
		if err != nil {
			status.Cache.Error = err.Error()
		}
	} else {
		status.Cache.Backend = "none"
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).SuccessWithMeta(code, status, nil)
}
