// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package upstream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/eventsieve/internal/config"
)

// Retry reasons, also used as metric labels.
const (
	reasonNetwork     = "network"
	reasonRateLimited = "rate_limited"
	reasonServerError = "server_error"
)

// classify reports whether err is worth retrying and why. Context errors,
// GraphQL errors, decode errors and 4xx other than 429 are final.
func classify(err error) (string, bool) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", false
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return reasonRateLimited, true
		case se.StatusCode >= 500:
			return reasonServerError, true
		default:
			return "", false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return reasonNetwork, true
	}
	return "", false
}

// callerFault reports whether err was caused by the request rather than the
// provider. Such errors are final and do not count against the breaker.
func callerFault(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		_, transient := classify(err)
		return !transient
	}
	return false
}

// backoff returns the wait before retry number n (0-based): base doubled per
// attempt, capped at max. A Retry-After hint wins when it is longer.
func backoff(cfg config.RetryConfig, n int, err error) time.Duration {
	delay := cfg.BaseDelay
	for i := 0; i < n && delay < cfg.MaxDelay; i++ {
		delay *= 2
	}
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > delay {
		delay = se.RetryAfter
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return delay
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
