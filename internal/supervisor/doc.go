// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package supervisor provides process supervision using suture v4.

The supervisor tree restarts failed long-running services with
exponential backoff and isolates failures by layer:

	cinemetrics (root)
	├── storage-layer     storage sweeper
	├── messaging-layer   websocket hub
	└── api-layer         HTTP server

Supervisor events (service failures, restarts, backoff) are logged
through sutureslog on top of the zerolog-backed slog adapter from
internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddStorageService(sweeperSvc)
	tree.AddMessagingService(hubSvc)
	tree.AddAPIService(httpSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Service wrappers live in the services subpackage.
*/
package supervisor
