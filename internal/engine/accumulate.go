// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

// Accumulation outcomes reported to metrics.
const (
	outcomeSatisfied = "satisfied"
	outcomeExhausted = "exhausted"
	outcomePageCap   = "page_cap"
	outcomeFailed    = "failed"
	outcomeCanceled  = "canceled"
)

// accumulate drives the fetcher from q.Cursor until at least minimum
// filtered records exist, upstream runs out of pages, or the page cap is
// reached. Any fetch error or cancellation abandons the run and returns no
// partial result.
func (s *Service) accumulate(ctx context.Context, q models.Query, filter *Filter, minimum int) (*models.AccumulatedResult, error) {
	ctx, span := s.tracer.Start(ctx, "engine.accumulate", trace.WithAttributes(
		attribute.String("operation", string(q.Operation)),
		attribute.String("query", q.Text),
		attribute.Int("minimum", minimum),
	))
	defer span.End()

	op := string(q.Operation)
	acc := &models.AccumulatedResult{Records: []models.Event{}}
	seen := make(map[string]struct{})
	outcome := outcomeExhausted

	for {
		if err := ctx.Err(); err != nil {
			return nil, s.abandon(span, op, outcomeCanceled, acc.Pages, err)
		}
		if acc.Pages >= s.cfg.MaxUpstreamPages {
			outcome = outcomePageCap
			logging.Ctx(ctx).Warn().
				Str("operation", op).
				Int("pages", acc.Pages).
				Int("records", len(acc.Records)).
				Msg("Upstream page cap reached, returning partial accumulation")
			break
		}

		page, err := s.fetcher.Fetch(ctx, q)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, s.abandon(span, op, outcomeCanceled, acc.Pages, ctxErr)
			}
			return nil, s.abandon(span, op, outcomeFailed, acc.Pages, upstreamFailure(err))
		}
		acc.Pages++

		acc.Records = append(acc.Records, filter.Apply(page.Records, seen)...)
		acc.LastCursor = page.NextCursor
		acc.HasMore = page.HasMore && page.NextCursor != ""

		logging.Ctx(ctx).Debug().
			Str("operation", op).
			Int("page", acc.Pages).
			Int("fetched", len(page.Records)).
			Int("accumulated", len(acc.Records)).
			Bool("has_more", acc.HasMore).
			Msg("Accumulated upstream page")

		if !acc.HasMore {
			break
		}
		if len(acc.Records) >= minimum {
			outcome = outcomeSatisfied
			break
		}
		q.Cursor = page.NextCursor
	}

	acc.FetchedAt = s.now()
	metrics.RecordAccumulation(op, outcome, acc.Pages)
	span.SetAttributes(
		attribute.Int("pages", acc.Pages),
		attribute.Int("records", len(acc.Records)),
		attribute.String("outcome", outcome),
	)
	return acc, nil
}

func (s *Service) abandon(span trace.Span, op, outcome string, pages int, err error) error {
	metrics.RecordAccumulation(op, outcome, pages)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	return err
}
