// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package api provides the HTTP layer of EventSieve.

It is a thin shim over the engine: handlers parse and validate parameters,
call the Searcher, and wrap the result or error in a common envelope.

Routes:

	POST /meetup/search   JSON body {query, page, per_page, after, start_date, end_date, exclude}
	GET  /meetup/search   the same fields as query parameters
	GET  /tech-events     ?page&per_page
	GET  /recommended     ?startDate&endDate
	GET  /today           ?after
	GET  /health          liveness, version, warmer status, recent latency
	GET  /health/ready    upstream circuit state and cache reachability
	GET  /metrics         Prometheus exposition

Envelope:

	{"success": true, "data": {"pageInfo": {...}, "nodes": [...]}, "meta": {"request_id": "...", "pagination": {...}}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "no results found", "request_id": "..."}, "meta": {...}}

Error Mapping:

  - 400 BAD_REQUEST: malformed parameter (non-numeric page, bad JSON)
  - 400 VALIDATION_ERROR: a field rejected by validation or the engine
  - 404 NOT_FOUND: no record survived filtering
  - 502 EXTERNAL_SERVICE_ERROR: an upstream page fetch failed
  - 504 GATEWAY_TIMEOUT: the request deadline passed
  - 500 INTERNAL_ERROR: anything else

Middleware (in order): request ID, RealIP, Recoverer, CORS, OpenTelemetry
server span, Prometheus, latency tracker, security headers, compression.
Search routes add a per-IP rate limit and a request deadline
(server.timeout); health routes use a separate, permissive limit.
*/
package api
