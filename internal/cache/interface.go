// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"fmt"
	"time"
)

// Cacher is the synchronous in-process cache contract. Both the TTL Cache
// and LFUCache satisfy it, and MemoryStore wraps either one.
type Cacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Len() int

	// Cleanup drops expired entries and returns how many were removed.
	Cleanup() int

	GetStats() Stats
	HitRate() float64
}

// Backend selects the result cache implementation.
type Backend string

const (
	// BackendMemory is an unbounded TTL map (default).
	BackendMemory Backend = "memory"

	// BackendLFU is a capacity-bounded LFU cache with TTL.
	BackendLFU Backend = "lfu"

	// BackendRedis shares results across instances through Redis.
	BackendRedis Backend = "redis"

	// BackendNone disables result caching.
	BackendNone Backend = "none"
)

// Config holds result cache settings.
type Config struct {
	Backend       Backend
	TTL           time.Duration
	SweepInterval time.Duration
	Capacity      int
	Redis         RedisConfig
}

// NewCacher creates an in-process cache for the memory or lfu backend.
func NewCacher(cfg Config) Cacher {
	if cfg.TTL <= 0 {
		cfg.TTL = 20 * time.Minute
	}

	if cfg.Backend == BackendLFU {
		return NewLFUCache(cfg.Capacity, cfg.TTL)
	}
	return New(cfg.TTL)
}

// NewStore builds the Store selected by cfg.Backend. A nil Store with a nil
// error means caching is disabled.
//
// The Redis backend is created without a connectivity check; an unreachable
// server surfaces as ErrUnavailable on first use so the engine can fall back
// to direct fetching instead of refusing to start.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone:
		return nil, nil
	case BackendRedis:
		return NewRedisStore(cfg.Redis), nil
	case BackendMemory, BackendLFU, "":
		name := string(cfg.Backend)
		if name == "" {
			name = string(BackendMemory)
		}
		return NewMemoryStore(NewCacher(cfg), name), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*LFUCache)(nil)
)
