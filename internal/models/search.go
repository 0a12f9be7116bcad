// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package models

import "time"

// Operation names the upstream GraphQL operation a Query runs.
type Operation string

const (
	OperationKeywordSearch Operation = "eventKeywordSearch"
	OperationRecommended   Operation = "recommendedEventsWithSeries"
)

// Query is one upstream page request. Cursor is empty for the first page.
type Query struct {
	Operation Operation
	Text      string
	StartDate time.Time
	EndDate   time.Time // zero means open-ended
	Cursor    string
	PageSize  int // zero uses the fetcher default
}

// Page is what the fetcher returns for one cursor position.
type Page struct {
	Records    []Event
	NextCursor string
	HasMore    bool
}

// AccumulatedResult is the filtered, discovery-ordered record list built
// by one accumulation run. It is stored in the result cache as a whole.
type AccumulatedResult struct {
	Records    []Event   `json:"records"`
	LastCursor string    `json:"lastCursor"`
	HasMore    bool      `json:"hasMore"`
	Pages      int       `json:"pages"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// Satisfies reports whether the result can serve a request that needs at
// least minimum records. An exhausted traversal satisfies any request.
func (r *AccumulatedResult) Satisfies(minimum int) bool {
	if r == nil {
		return false
	}
	return len(r.Records) >= minimum || !r.HasMore
}

// EventDateLayout is the calendar-day form accepted for date parameters.
const EventDateLayout = "2006-01-02"

// ParseEventDate parses a caller date given either as a calendar day,
// interpreted as midnight in loc, or as an RFC 3339 timestamp.
func ParseEventDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(EventDateLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// SearchRequest is the caller-facing search contract shared by the HTTP
// handlers, the CLI client and the engine.
type SearchRequest struct {
	Query     string   `json:"query" validate:"max=200"`
	Page      int      `json:"page"`
	PerPage   int      `json:"per_page"`
	After     string   `json:"after,omitempty" validate:"max=512"`
	StartDate string   `json:"start_date,omitempty" validate:"omitempty,eventdate"`
	EndDate   string   `json:"end_date,omitempty" validate:"omitempty,eventdate"`
	Exclude   []string `json:"exclude,omitempty" validate:"max=20,dive,min=1,max=100"`
}

// PageInfo describes where a response sits in the accumulated list.
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// SearchResponse is the success payload for every search-style route.
type SearchResponse struct {
	PageInfo PageInfo `json:"pageInfo"`
	Nodes    []Event  `json:"nodes"`
}
