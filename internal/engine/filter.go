// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"slices"
	"strings"

	"github.com/tomtom215/eventsieve/internal/metrics"
	"github.com/tomtom215/eventsieve/internal/models"
)

// Drop reasons reported to metrics.
const (
	reasonClosed    = "closed"
	reasonAttending = "attending"
	reasonExcluded  = "excluded_term"
	reasonDuplicate = "duplicate"
)

// Filter decides which upstream records reach the caller. A record is kept
// only when every predicate passes: its RSVP is not closed, the user is not
// already attending, and its title contains none of the exclusion terms.
// Filter holds no mutable state.
type Filter struct {
	terms   []string
	matcher *termMatcher
}

// NewFilter builds a filter from exclusion terms. Terms are lowercased,
// trimmed, sorted and deduplicated; empty terms are dropped.
func NewFilter(terms ...[]string) *Filter {
	normalized := normalizeTerms(terms...)
	return &Filter{terms: normalized, matcher: newTermMatcher(normalized)}
}

// Terms returns the normalized exclusion terms.
func (f *Filter) Terms() []string {
	return slices.Clone(f.terms)
}

// Keep reports whether e passes every predicate, and if not, why.
func (f *Filter) Keep(e models.Event) (bool, string) {
	if e.RsvpState == models.RsvpClosed {
		return false, reasonClosed
	}
	if e.Attending() {
		return false, reasonAttending
	}
	if _, found := f.matcher.FirstMatch(e.Title); found {
		return false, reasonExcluded
	}
	return true, ""
}

// Apply returns the records of one page that pass the filter, in their
// original order. seen tracks ids already accepted during the current
// accumulation; repeats are dropped. seen may be nil.
func (f *Filter) Apply(records []models.Event, seen map[string]struct{}) []models.Event {
	kept := make([]models.Event, 0, len(records))
	dropped := make(map[string]int)

	for _, e := range records {
		ok, reason := f.Keep(e)
		if !ok {
			dropped[reason]++
			continue
		}
		if seen != nil {
			if _, dup := seen[e.ID]; dup {
				dropped[reasonDuplicate]++
				continue
			}
			seen[e.ID] = struct{}{}
		}
		kept = append(kept, e)
	}

	for reason, n := range dropped {
		metrics.RecordFiltered(reason, n)
	}
	return kept
}

func normalizeTerms(groups ...[]string) []string {
	var out []string
	for _, group := range groups {
		for _, term := range group {
			term = strings.ToLower(strings.TrimSpace(term))
			if term != "" {
				out = append(out, term)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
