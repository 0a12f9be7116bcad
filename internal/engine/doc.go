// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package engine turns a cursor-paginated upstream event feed into stable,
filtered, caller-sized pages.

# Pipeline

Each request flows through four stages:

 1. Result cache lookup, keyed by the normalized request
 2. Accumulation loop: fetch a page, filter it, append the survivors, follow
    the cursor until enough records exist or upstream runs out
 3. Pager: cut the requested window out of the accumulated list
 4. Cache store of the accumulation, unless the request failed or was
    canceled

The filter drops events with a closed RSVP, events the caller already
attends, and events whose title contains an exclusion term. Exclusion terms
are matched with an Aho-Corasick automaton so a title is scanned once no
matter how many terms are configured.

# Operations

  - Search: keyword search, pages kept in upstream discovery order
  - TechEvents: several keyword searches fanned out with errgroup, merged,
    deduplicated and sorted with CompareEvents
  - Recommended: the recommendation feed for a date range, sorted by start
  - Today: keyword-less listing from now to the end of the day

# Errors

Callers classify failures with errors.Is against ErrInvalidRequest,
ErrUpstreamFailure and ErrNoResults. A RequestError carries the offending
field. Cache backend failures never reach the caller; the engine logs them
and fetches directly.

# Usage

	svc := engine.NewService(fetcher, store, engine.DefaultConfig())
	resp, err := svc.Search(ctx, models.SearchRequest{
	    Query:   "golang",
	    Page:    1,
	    PerPage: 10,
	})
	if errors.Is(err, engine.ErrNoResults) {
	    // nothing matched
	}
*/
package engine
