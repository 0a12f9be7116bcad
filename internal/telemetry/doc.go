// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package telemetry wires OpenTelemetry tracing: an OTLP gRPC exporter
// behind the global tracer provider, W3C trace-context propagation, and an
// HTTP middleware that opens one server span per request.
//
// The engine and upstream packages create their spans through otel.Tracer,
// so they export only when Init was called with telemetry enabled.
package telemetry
