// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package warmer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/engine"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

// runTimeout bounds a single warm run so a stuck upstream cannot pile up runs.
const runTimeout = 2 * time.Minute

// Feed is the engine operation the warmer keeps hot.
type Feed interface {
	TechEvents(ctx context.Context, page, perPage int) (*models.SearchResponse, error)
}

// Warmer periodically requests the first pages of the tech-events feed so
// that the accumulated results are already cached when callers arrive.
type Warmer struct {
	feed     Feed
	cfg      config.WarmerConfig
	schedule cron.Schedule

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun time.Time
	lastErr error
}

// New validates the schedule and returns a stopped warmer.
func New(feed Feed, cfg config.WarmerConfig) (*Warmer, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid warmer schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.PerPage < 1 || cfg.Pages < 1 {
		return nil, fmt.Errorf("warmer per_page and pages must be positive")
	}
	return &Warmer{feed: feed, cfg: cfg, schedule: schedule}, nil
}

// Start schedules warm runs. A run still in progress when the next one is
// due causes that tick to be skipped.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return errors.New("warmer already started")
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(w.schedule, cron.FuncJob(func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		_ = w.RunOnce(runCtx)
	}))
	c.Start()
	w.cron = c

	logging.Info().Str("schedule", w.cfg.Schedule).Int("pages", w.cfg.Pages).Int("per_page", w.cfg.PerPage).Msg("Cache warmer started")
	return nil
}

// Stop halts scheduling and waits for a running warm to finish.
func (w *Warmer) Stop() error {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return nil
	}
	<-c.Stop().Done()
	logging.Info().Msg("Cache warmer stopped")
	return nil
}

// RunOnce warms pages 1..Pages. Running out of results ends the run early
// and is not an error.
func (w *Warmer) RunOnce(ctx context.Context) error {
	start := time.Now()
	warmed := 0

	var err error
	for page := 1; page <= w.cfg.Pages; page++ {
		var resp *models.SearchResponse
		resp, err = w.feed.TechEvents(ctx, page, w.cfg.PerPage)
		if errors.Is(err, engine.ErrNoResults) {
			err = nil
			break
		}
		if err != nil {
			err = fmt.Errorf("warm page %d: %w", page, err)
			break
		}
		warmed++
		if !resp.PageInfo.HasNextPage {
			break
		}
	}

	metrics.RecordWarmerRun(err)

	w.mu.Lock()
	w.lastRun = start
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		logging.Warn().Err(err).Int("pages_warmed", warmed).Msg("Cache warm run failed")
		return err
	}
	logging.Debug().Int("pages_warmed", warmed).Dur("duration", time.Since(start)).Msg("Cache warm run complete")
	return nil
}

// LastRun returns when the latest run started and how it ended.
func (w *Warmer) LastRun() (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastErr
}

// cronLogger routes cron's internal messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
