// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

const tracerName = "github.com/tomtom215/eventsieve/internal/upstream"

// BreakerName labels the upstream circuit breaker in metrics.
const BreakerName = "upstream-graphql"

// Fetcher retrieves pages from the provider. Every attempt waits for the
// client-side rate limiter and then runs through the circuit breaker;
// transient failures are retried around that pair.
//
// Fetcher is safe for concurrent use.
type Fetcher struct {
	client  *Client
	limiter *rate.Limiter // nil when pacing is disabled
	breaker *breaker
	retry   config.RetryConfig
	tracer  trace.Tracer
}

// NewFetcher builds the resilient fetch path from cfg.
func NewFetcher(cfg *config.UpstreamConfig) *Fetcher {
	f := &Fetcher{
		client:  NewClient(cfg),
		breaker: newBreaker(BreakerName, cfg.Breaker),
		retry:   cfg.Retry,
		tracer:  otel.Tracer(tracerName),
	}
	if cfg.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	if f.retry.MaxAttempts < 1 {
		f.retry.MaxAttempts = 1
	}
	return f
}

// Fetch returns one page for q.
func (f *Fetcher) Fetch(ctx context.Context, q models.Query) (models.Page, error) {
	op := string(q.Operation)
	ctx, span := f.tracer.Start(ctx, "upstream.fetch", trace.WithAttributes(
		attribute.String("upstream.operation", op),
		attribute.Bool("upstream.first_page", q.Cursor == ""),
	))
	defer span.End()

	start := time.Now()
	page, attempts, err := f.fetchWithRetry(ctx, q)
	metrics.RecordUpstreamFetch(op, time.Since(start), err)

	span.SetAttributes(attribute.Int("upstream.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return models.Page{}, err
	}

	span.SetAttributes(
		attribute.Int("upstream.records", len(page.Records)),
		attribute.Bool("upstream.has_more", page.HasMore),
	)
	return page, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, q models.Query) (models.Page, int, error) {
	op := string(q.Operation)

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return models.Page{}, attempts, err
		}

		page, err := f.attempt(ctx, q)
		attempts++
		if err == nil {
			return page, attempts, nil
		}

		reason, transient := classify(err)
		if !transient || attempts >= f.retry.MaxAttempts {
			if attempts > 1 {
				err = fmt.Errorf("%s fetch failed after %d attempts: %w", op, attempts, err)
			}
			return models.Page{}, attempts, err
		}

		delay := backoff(f.retry, attempts-1, err)
		metrics.RecordUpstreamRetry(op, reason)
		logging.CtxWarn(ctx).Err(err).Str("operation", op).Str("reason", reason).Int("attempt", attempts).Dur("delay", delay).Msg("Retrying upstream fetch")

		if err := sleep(ctx, delay); err != nil {
			return models.Page{}, attempts, err
		}
	}
}

// attempt is one paced, breaker-protected round trip.
func (f *Fetcher) attempt(ctx context.Context, q models.Query) (models.Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return models.Page{}, err
		}
	}
	return f.breaker.execute(func() (models.Page, error) {
		return f.client.FetchPage(ctx, q)
	})
}

// BreakerState reports the circuit breaker state for readiness checks.
func (f *Fetcher) BreakerState() string {
	return f.breaker.State()
}
