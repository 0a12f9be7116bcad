// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

/*
Package supervisor runs EventSieve's long-lived services under a suture v4
supervisor tree.

# Tree

	eventsieve (root)
	├── cache-layer
	│   └── cache sweeper (memory and lfu backends)
	├── background-layer
	│   └── cache-warmer (if warmer.enabled)
	└── api-layer
	    └── http-server

Each layer counts failures independently. A crashing warmer backs off
inside background-layer while http-server keeps serving.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddCacheService(cache.NewSweeper(c, time.Minute, "memory"))
	tree.AddBackgroundService(services.NewWarmerService(w, true))
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog onto the process zerolog logger.

# Shutdown

Cancelling the Serve context stops every service. Services that miss
TreeConfig.ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
