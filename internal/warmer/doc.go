// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package warmer keeps the tech-events feed cached on a cron schedule
// (robfig/cron). It is optional and only useful with a cache backend, since
// each run is an ordinary engine call whose result lands in the store.
package warmer
