// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/metrics"
)

// Sweeper evicts expired entries from an in-process cache on a fixed
// interval. It implements suture.Service and stops when its context is
// canceled.
type Sweeper struct {
	cache    Cacher
	interval time.Duration
	label    string
}

// NewSweeper creates a sweeper for c. A non-positive interval defaults to
// one minute.
func NewSweeper(c Cacher, interval time.Duration, label string) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{cache: c, interval: interval, label: label}
}

// Serve implements suture.Service.
func (s *Sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one eviction pass and returns the number of entries removed.
func (s *Sweeper) Sweep() int {
	removed := s.cache.Cleanup()
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(s.label).Add(float64(removed))
		logging.Debug().
			Str("cache", s.label).
			Int("removed", removed).
			Int("remaining", s.cache.Len()).
			Msg("Swept expired cache entries")
	}
	metrics.CacheSize.WithLabelValues(s.label).Set(float64(s.cache.Len()))
	return removed
}

// String implements fmt.Stringer for supervisor logs.
func (s *Sweeper) String() string {
	return "cache-sweeper"
}
