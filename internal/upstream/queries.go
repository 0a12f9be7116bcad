// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"strings"
	"time"

	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/models"
)

// keywordSearchQuery selects only the event fields the engine and the API
// envelope use.
const keywordSearchQuery = `query eventKeywordSearch($first: Int, $after: String, $query: String!, $lat: Float!, $lon: Float!, $startDateRange: ZonedDateTime, $endDateRange: ZonedDateTime, $eventType: EventType, $source: [SearchSources!]!, $city: String, $state: String, $country: String, $zip: String, $sortField: KeywordSortField) {
  results: keywordSearch(
    input: {first: $first, after: $after}
    filter: {query: $query, lat: $lat, lon: $lon, source: $source, startDateRange: $startDateRange, endDateRange: $endDateRange, eventType: $eventType, city: $city, state: $state, country: $country, zip: $zip}
    sort: {sortField: $sortField}
  ) {
    pageInfo { hasNextPage endCursor }
    count
    edges {
      node {
        id
        result {
          ... on Event {
            id
            title
            dateTime
            endTime
            description
            duration
            timezone
            eventType
            currency
            eventUrl
            going
            isAttending
            isSaved
            rsvpState
            venue { id name address city state country lat lng }
            group { name }
          }
        }
      }
    }
  }
}`

// Recommendations are served from a persisted query; the provider rejects
// ad-hoc query text on that endpoint.
const (
	recommendedQueryHash    = "0f0332e9a4b01456580c1f669f26edc053d50382b3e338d5ca580f194a27feab"
	recommendedIndexAlias   = "popular_events_nearby_current"
	recommendedSeriesEvents = 5
)

// zonedDateLayout is the offset part of the provider's ZonedDateTime; the
// zone name follows in brackets.
const zonedDateLayout = "2006-01-02T15:04:05-07:00"

// formatZoned renders t as a ZonedDateTime such as
// 2026-03-15T00:00:00-04:00[US/Eastern].
func formatZoned(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(zonedDateLayout) + "[" + loc.String() + "]"
}

// variables builds the GraphQL variables for q against the configured
// search origin.
func variables(cfg *config.UpstreamConfig, loc *time.Location, q models.Query) map[string]any {
	first := q.PageSize
	if first <= 0 {
		first = cfg.PageSize
	}

	start := q.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	vars := map[string]any{
		"first":          first,
		"lat":            cfg.Lat,
		"lon":            cfg.Lon,
		"city":           cfg.City,
		"eventType":      strings.ToUpper(cfg.EventType),
		"sortField":      "RELEVANCE",
		"startDateRange": formatZoned(start, loc),
		"query":          q.Text,
	}
	if q.Cursor != "" {
		vars["after"] = q.Cursor
	}
	if !q.EndDate.IsZero() {
		vars["endDateRange"] = formatZoned(q.EndDate, loc)
	}

	switch q.Operation {
	case models.OperationRecommended:
		vars["indexAlias"] = recommendedIndexAlias
		vars["doConsolidateEvents"] = true
		vars["doPromotePaypalEvents"] = false
		vars["numberOfEventsForSeries"] = recommendedSeriesEvents
	default:
		vars["source"] = []string{"EVENTS"}
		vars["state"] = cfg.State
		vars["country"] = cfg.Country
		vars["zip"] = cfg.Zip
	}
	return vars
}

// buildRequest returns the endpoint and body for q.
func buildRequest(cfg *config.UpstreamConfig, loc *time.Location, q models.Query) (string, graphQLRequest) {
	vars := variables(cfg, loc, q)

	if q.Operation == models.OperationRecommended {
		return cfg.RecommendedURL, graphQLRequest{
			OperationName: string(models.OperationRecommended),
			Variables:     vars,
			Extensions: &extensions{PersistedQuery: persistedQuery{
				Version:    1,
				SHA256Hash: recommendedQueryHash,
			}},
		}
	}

	return cfg.URL, graphQLRequest{
		OperationName: cfg.Operation,
		Variables:     vars,
		Query:         keywordSearchQuery,
	}
}
