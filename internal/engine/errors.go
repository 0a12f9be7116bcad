// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import (
	"errors"
	"fmt"

	"github.com/tomtom215/eventsieve/internal/cache"
)

// Error kinds. Match with errors.Is.
var (
	// ErrInvalidRequest means the caller's parameters were rejected before
	// any upstream call was made.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstreamFailure means a page fetch failed and the whole request was
	// abandoned. Nothing is returned or cached.
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrNoResults means upstream was traversed successfully but no record
	// survived filtering.
	ErrNoResults = errors.New("no results found")

	// ErrCacheUnavailable is never returned to callers; the engine logs it
	// and falls back to fetching directly.
	ErrCacheUnavailable = cache.ErrUnavailable
)

// RequestError describes a rejected caller parameter. It unwraps to
// ErrInvalidRequest.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return ErrInvalidRequest
}

func invalidf(field, format string, args ...any) error {
	return &RequestError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func upstreamFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
}
