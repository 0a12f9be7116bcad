// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"cmp"
	"slices"

	"github.com/tomtom215/eventsieve/internal/models"
)

// CompareEvents orders events for merged feeds: events the user attends
// first, then saved events, then by start time with unparseable times last,
// then by id.
func CompareEvents(a, b models.Event) int {
	if c := compareFlag(a.Attending(), b.Attending()); c != 0 {
		return c
	}
	if c := compareFlag(a.IsSaved, b.IsSaved); c != 0 {
		return c
	}
	if c := compareStart(a, b); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// CompareChronological orders events by start time only, falling back to id.
func CompareChronological(a, b models.Event) int {
	if c := compareStart(a, b); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareFlag(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func compareStart(a, b models.Event) int {
	at, aok := a.StartAt()
	bt, bok := b.StartAt()
	switch {
	case aok && bok:
		return at.Compare(bt)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

// Dedup removes repeated ids, keeping the first occurrence.
func Dedup(records []models.Event) []models.Event {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Event, 0, len(records))
	for _, e := range records {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// sortEvents sorts a copy of records with cmpFn.
func sortEvents(records []models.Event, cmpFn func(a, b models.Event) int) []models.Event {
	out := slices.Clone(records)
	slices.SortStableFunc(out, cmpFn)
	return out
}
