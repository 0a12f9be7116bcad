// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package services

import (
	"context"
	"fmt"
)

// CacheWarmer is the lifecycle of *warmer.Warmer.
type CacheWarmer interface {
	Start(ctx context.Context) error
	Stop() error
	RunOnce(ctx context.Context) error
}

// WarmerService runs the cache warmer under supervision, translating its
// Start/Stop lifecycle into Serve.
type WarmerService struct {
	warmer      CacheWarmer
	warmOnStart bool
	name        string
}

// NewWarmerService wraps w. With warmOnStart set, each Serve performs one
// warm run before handing over to the schedule, so a fresh process does
// not wait for the first cron tick.
func NewWarmerService(w CacheWarmer, warmOnStart bool) *WarmerService {
	return &WarmerService{
		warmer:      w,
		warmOnStart: warmOnStart,
		name:        "cache-warmer",
	}
}

// Serve implements suture.Service. A failed initial warm is not fatal; the
// warmer records and logs it and the schedule retries.
func (s *WarmerService) Serve(ctx context.Context) error {
	if err := s.warmer.Start(ctx); err != nil {
		return fmt.Errorf("cache warmer start failed: %w", err)
	}

	if s.warmOnStart {
		_ = s.warmer.RunOnce(ctx)
	}

	<-ctx.Done()

	if err := s.warmer.Stop(); err != nil {
		return fmt.Errorf("cache warmer stop failed: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor events.
func (s *WarmerService) String() string {
	return s.name
}
