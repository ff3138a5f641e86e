// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package services provides suture.Service wrappers for Cinemetrics components.

Each wrapper implements suture's context-aware Serve pattern and
fmt.Stringer for service identification in supervisor logs.

Available Services:

  - HTTPServerService: *http.Server with graceful Shutdown on cancellation
  - WebSocketHubService: websocket.Hub delivery loop
  - SweeperService: periodic recommend.Sweeper passes over the store

Usage:

	tree.AddStorageService(services.NewSweeperService(sweeper, services.SweeperServiceConfig{
	    Interval:       cfg.Storage.SweepInterval,
	    SweepOnStartup: true,
	}, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

Error Semantics:

Serve returns ctx.Err() on shutdown. Any other returned error is treated
by suture as a failure and the service is restarted with backoff.
*/
package services
