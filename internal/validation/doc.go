// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package validation wraps go-playground/validator v10 for request structs.
//
// A single validator is built once and shared. Error field names follow the
// struct's json tags, so a bad start date is reported as "start_date", and
// messages are translated into short sentences suitable for an API error.
//
// # Custom Tags
//
//   - eventdate: a calendar day (YYYY-MM-DD) or an RFC 3339 timestamp
//
// # Usage
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError() // Code is VALIDATION_ERROR
//	    ...
//	}
//
// For several failing fields the message joins "field: message" pairs and
// Details["fields"] carries the individual FieldError values.
package validation
