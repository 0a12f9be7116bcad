// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"context"

	"github.com/tomtom215/eventsieve/internal/models"
)

// Fetcher returns one upstream page for a cursor position. Any transport or
// decoding problem is reported as an error; the engine never inspects it
// beyond classifying it as an upstream failure.
type Fetcher interface {
	Fetch(ctx context.Context, q models.Query) (models.Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, q models.Query) (models.Page, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, q models.Query) (models.Page, error) {
	return f(ctx, q)
}
