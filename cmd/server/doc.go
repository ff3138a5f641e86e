// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package main is the entry point for the Cinemetrics recommendation server.

The server turns a user's watch history into personalized movie and TV
recommendations. An LLM proposes titles, TMDB resolves them to catalog
entries, and trending titles are served whenever personalization is not
possible.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("cinemetrics")
	├── StorageSupervisor ("storage-layer")
	│   └── Storage sweeper (expired ledgers, corrupt records)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (snapshot push)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Storage: BadgerDB (or in-memory for development)
 4. Clients: TMDB catalog and OpenRouter generator, each behind a circuit breaker
 5. WebSocket Hub: receives every recommendation state change
 6. Recommendation Manager: per-user refresh sessions
 7. HTTP Server: Chi router with middleware stack
 8. Supervisor Tree: starts the sweeper, hub and HTTP server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=3857               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	CORS_ORIGINS=*               # comma-separated allow list

	# Storage
	STORAGE_BACKEND=badger       # badger or memory
	BADGER_PATH=/data/cinemetrics
	STORAGE_SWEEP_INTERVAL=1h    # 0 disables the sweeper

	# External services
	TMDB_API_KEY=<key>           # without it lookups return nothing
	OPENROUTER_API_KEY=<key>     # without it every refresh falls back to trending
	OPENROUTER_MODEL=x-ai/grok-4.1-fast:free

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests (HTTP_SHUTDOWN_TIMEOUT)
  - Closes websocket clients
  - Closes the storage backend

# Example Usage

Development with in-memory storage:

	export STORAGE_BACKEND=memory
	export LOG_FORMAT=console
	export TMDB_API_KEY=your-tmdb-key
	export OPENROUTER_API_KEY=your-openrouter-key
	./cinemetrics

Docker:

	docker run -d \
	  -e TMDB_API_KEY=your-tmdb-key \
	  -e OPENROUTER_API_KEY=your-openrouter-key \
	  -v cinemetrics-data:/data \
	  -p 3857:3857 \
	  ghcr.io/tomtom215/cinemetrics
*/
package main
