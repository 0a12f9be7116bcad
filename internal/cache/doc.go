// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package cache provides the result cache used by the search engine.

An accumulation run can cost several upstream round trips, so the engine
keeps each AccumulatedResult under a fingerprint of the normalized request
for a TTL window (20 minutes by default).

# Backends

  - memory: Cache, a TTL map guarded by sync.RWMutex
  - lfu: LFUCache, capacity-bounded with frequency-based eviction
  - redis: RedisStore, shared across instances via go-redis
  - none: caching disabled

The in-process backends are wrapped by MemoryStore to satisfy Store. Expired
entries are dropped lazily on Get and in bulk by Sweeper, a suture service
that runs Cleanup on a fixed interval.

# Failure Handling

RedisStore reports connectivity problems as ErrUnavailable. The engine
treats that as a miss and fetches from upstream directly, so a Redis outage
degrades latency rather than availability.

# Keys

GenerateKey hashes a JSON encoding of the caller's normalized parameters:

	key := cache.GenerateKey("search", params)

Callers are responsible for normalizing order-insensitive fields before
calling it.
*/
package cache
