// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/eventsieve/internal/engine"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/upstream"
)

// upstreamServiceName appears in 502 messages.
const upstreamServiceName = "event provider"

// ServiceError maps an engine error to its HTTP status and error code.
//
//	RequestError        -> 400 VALIDATION_ERROR (details.field)
//	ErrInvalidRequest   -> 400 BAD_REQUEST
//	ErrNoResults        -> 404 NOT_FOUND
//	ErrUpstreamFailure  -> 502 EXTERNAL_SERVICE_ERROR
//	deadline exceeded   -> 504 GATEWAY_TIMEOUT
//	client went away    -> 503 SERVICE_UNAVAILABLE
//	anything else       -> 500 INTERNAL_ERROR
func (rw *ResponseWriter) ServiceError(err error) {
	ctx := rw.r.Context()

	var reqErr *engine.RequestError
	switch {
	case errors.As(err, &reqErr):
		rw.ValidationError(reqErr.Message, map[string]string{"field": reqErr.Field})

	case errors.Is(err, engine.ErrInvalidRequest):
		rw.BadRequest(err.Error())

	case errors.Is(err, engine.ErrNoResults):
		rw.NotFound(engine.ErrNoResults.Error())

	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logging.Ctx(ctx).Warn().Err(err).Msg("Request deadline exceeded")
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")

	case ctx.Err() != nil:
		logging.Ctx(ctx).Debug().Err(err).Msg("Client canceled request")
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "request canceled")

	case errors.Is(err, engine.ErrUpstreamFailure):
		var details interface{}
		if errors.Is(err, upstream.ErrCircuitOpen) {
			details = map[string]string{"circuit": "open"}
		}
		rw.ExternalServiceError(upstreamServiceName, err, details)

	default:
		logging.Ctx(ctx).Error().Err(err).Msg("Unhandled service error")
		rw.InternalError("internal server error")
	}
}
