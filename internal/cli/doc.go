// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package cli implements the eventsieve command-line client.
//
// Commands:
//
//	eventsieve search <query> [--page --per-page --start-date --end-date --exclude]
//	eventsieve tech-events [--page --per-page]
//	eventsieve today [--after]
//	eventsieve version
//
// Output uses the chat reply layout: bold labels, descriptions flattened
// and cut to 250 characters, and links wrapped in <> so chat clients do not
// render previews when the output is pasted.
package cli
