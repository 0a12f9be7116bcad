// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package logging provides the process-wide zerolog logger.
//
// JSON output is the default; LOG_FORMAT=console switches to the
// human-readable writer for local runs.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// # Request Context
//
// The API middleware stores a request ID in the context. Ctx and the CtxX
// helpers copy it into every entry along with the active OpenTelemetry
// trace and span IDs, so a log line can be joined to its trace:
//
//	logging.CtxWarn(ctx).Err(err).Msg("Cache unavailable, fetching directly")
//	// {"level":"warn","request_id":"...","trace_id":"...","span_id":"...",...}
//
// # slog Bridge
//
// NewSlogLogger adapts the logger for libraries that only accept
// *slog.Logger, such as the suture supervisor event hook.
//
// Always finish an entry with Msg or Send; an unterminated chain writes
// nothing.
package logging
