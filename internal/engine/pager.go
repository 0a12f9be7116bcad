// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"math"

	"github.com/tomtom215/eventsieve/internal/models"
)

// Slice cuts page (1-based) of perPage records out of an accumulated list.
// The window ends at min(page*perPage, len) and starts perPage records
// before that, clamped at zero, so a page past the end still returns the
// final records. hasMore reports whether records exist beyond the window.
func Slice(records []models.Event, page, perPage int) ([]models.Event, bool, error) {
	if page < 1 {
		return nil, false, invalidf("page", "page number cannot be less than 1")
	}
	if perPage < 1 {
		return nil, false, invalidf("per_page", "page size cannot be less than 1")
	}
	if perPage > math.MaxInt/page {
		return nil, false, invalidf("per_page", "page size too large for page %d", page)
	}
	if len(records) == 0 {
		return nil, false, ErrNoResults
	}

	end := min(page*perPage, len(records))
	begin := max(end-perPage, 0)

	return records[begin:end], end < len(records), nil
}
