// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

// Package services adapts EventSieve components to suture.Service.
//
// HTTPServerService translates ListenAndServe/Shutdown into Serve and drains
// connections on cancellation. WarmerService translates the cache warmer's
// Start/Stop into Serve and can perform one warm run on every start.
package services
