// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package api provides the HTTP REST API layer for Cinemetrics recommendations.

Endpoints:

	POST /api/v1/users/{userID}/recommendations/refresh   run a refresh cycle
	GET  /api/v1/users/{userID}/recommendations           current snapshot
	GET  /api/v1/users/{userID}/recommendations/ledger    previously proposed titles
	GET  /api/v1/users/{userID}/recommendations/ws        websocket snapshot stream
	GET  /health, /health/live, /health/ready             health checks
	GET  /metrics                                         Prometheus exposition

The refresh body carries the user's full watch history:

	{"history": [{"title": "Heat", "rating": 5, "status": "history"}], "force": false}

Once the path and body are valid a refresh always answers 200 with a
snapshot. Generator or catalog failures show up as state "ready_trending",
never as HTTP errors.

Middleware Stack (outermost first):

  - RequestID: X-Request-ID propagation and logging context
  - RealIP, Recoverer (chi)
  - PrometheusMetrics: request metrics by route pattern
  - CORS (go-chi/cors)
  - RateLimit (go-chi/httprate), per client IP, on /api/v1 only

Responses use the models.APIResponse envelope. Error codes:

  - INVALID_USER_ID, INVALID_REQUEST, VALIDATION_ERROR (400)
  - NOT_FOUND (404), METHOD_NOT_ALLOWED (405)
  - REQUEST_TOO_LARGE (413), RATE_LIMITED (429)
  - INTERNAL_ERROR (500), SERVICE_UNAVAILABLE (503)
*/
package api
