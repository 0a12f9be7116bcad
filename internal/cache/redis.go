// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

// RedisConfig configures the Redis result cache backend.
type RedisConfig struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string

	// Password for Redis authentication (optional)
	Password string

	// DB is the database number to use
	DB int

	// Prefix is prepended to every key (e.g., "eventsieve:results:")
	Prefix string

	// Timeout bounds dial, read and write operations
	Timeout time.Duration
}

// DefaultRedisConfig returns defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:    "localhost:6379",
		Prefix:  "eventsieve:results:",
		Timeout: 2 * time.Second,
	}
}

// RedisStore keeps accumulated results in Redis so several server instances
// share one cache. Values are JSON documents written with SET ... EX.
type RedisStore struct {
	cfg    RedisConfig
	client *redis.Client
}

// NewRedisStore creates a Redis-backed Store. No connection is made until
// the first command.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		MaxRetries:   -1, // fail fast; the engine falls back to upstream
	})

	return &RedisStore{cfg: cfg, client: client}
}

func (s *RedisStore) key(k string) string {
	return s.cfg.Prefix + k
}

// Get loads and decodes the result stored under key. Connection failures are
// reported as ErrUnavailable. An undecodable value is treated as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (*models.AccumulatedResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(s.Name(), false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get: %w", ErrUnavailable, err)
	}

	var result models.AccumulatedResult
	if err := json.Unmarshal(data, &result); err != nil {
		metrics.RecordCacheLookup(s.Name(), false)
		return nil, false, nil
	}

	metrics.RecordCacheLookup(s.Name(), true)
	return &result, true, nil
}

// Set encodes value and writes it with the given expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value *models.AccumulatedResult, ttl time.Duration) error {
	if value == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached result: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", ErrUnavailable, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %w", ErrUnavailable, err)
	}
	return nil
}

// Name returns the backend label.
func (s *RedisStore) Name() string { return string(BackendRedis) }

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
