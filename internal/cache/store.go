// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

// ErrUnavailable is returned when a configured cache backend cannot be
// reached. Callers treat it as a miss and fetch directly.
var ErrUnavailable = errors.New("cache unavailable")

// Store maps request fingerprints to accumulated results.
//
// Implementations must be safe for concurrent use. Set replaces any entry
// under the same key wholesale; concurrent writers race with last-write-wins
// semantics and readers never observe a partially written value.
type Store interface {
	Get(ctx context.Context, key string) (*models.AccumulatedResult, bool, error)
	Set(ctx context.Context, key string, value *models.AccumulatedResult, ttl time.Duration) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in metrics and logs.
	Name() string
}

// MemoryStore adapts an in-process Cacher to Store.
type MemoryStore struct {
	c    Cacher
	name string
}

// NewMemoryStore wraps c. name labels the cache_type metric.
func NewMemoryStore(c Cacher, name string) *MemoryStore {
	return &MemoryStore{c: c, name: name}
}

// Get returns the stored result for key.
func (s *MemoryStore) Get(ctx context.Context, key string) (*models.AccumulatedResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	v, ok := s.c.Get(key)
	metrics.RecordCacheLookup(s.name, ok)
	if !ok {
		return nil, false, nil
	}

	result, ok := v.(*models.AccumulatedResult)
	if !ok {
		s.c.Delete(key)
		return nil, false, nil
	}
	return result, true, nil
}

// Set stores a private copy of value so later mutation of the caller's
// slice cannot leak into the cache.
func (s *MemoryStore) Set(ctx context.Context, key string, value *models.AccumulatedResult, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == nil {
		return nil
	}

	stored := *value
	stored.Records = slices.Clone(value.Records)
	if ttl > 0 {
		s.c.SetWithTTL(key, &stored, ttl)
	} else {
		s.c.Set(key, &stored)
	}
	metrics.CacheSize.WithLabelValues(s.name).Set(float64(s.c.Len()))
	return nil
}

// Ping always succeeds for an in-process cache.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Name returns the backend label.
func (s *MemoryStore) Name() string { return s.name }

// StoreStats summarizes an in-process cache for health reporting.
type StoreStats struct {
	Entries   int     `json:"entries"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate_percent"`
}

// Stats snapshots the wrapped cache's counters.
func (s *MemoryStore) Stats() StoreStats {
	st := s.c.GetStats()
	return StoreStats{
		Entries:   s.c.Len(),
		Hits:      st.Hits,
		Misses:    st.Misses,
		Evictions: st.Evictions,
		HitRate:   s.c.HitRate(),
	}
}

// Cacher exposes the wrapped cache for the sweeper.
func (s *MemoryStore) Cacher() Cacher { return s.c }

var _ Store = (*MemoryStore)(nil)
