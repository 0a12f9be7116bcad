// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package models defines the normalized data types shared across EventSieve.

Event is the single record type the engine works with. Every upstream
schema revision is mapped into it by the upstream package, so schema churn
never reaches the engine, cache or API layers.

# Types

  - Event, Venue, RsvpState: one upstream event and its passthrough fields
  - Query, Page: the fetcher's request and per-cursor response
  - AccumulatedResult: filtered records built by one accumulation run
  - SearchRequest, SearchResponse, PageInfo: the caller-facing contract

JSON tags on Event follow the upstream field names (dateTime, eventUrl,
rsvpState) so front ends written against the provider keep working.
*/
package models
