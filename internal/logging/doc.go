// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package logging provides the process-wide zerolog logger for Cinemetrics.

Components derive child loggers with a "component" field and log through
them:

	logger := logging.WithComponent("recommend")
	logger.Info().Str("user_id", id).Msg("Refresh started")

Request-scoped fields (request_id, user_id) travel on the context and are
attached by Ctx:

	logging.Ctx(r.Context()).Warn().Err(err).Msg("Refresh failed")

Libraries that expect log/slog (the suture supervisor) are bridged with
NewSlogLogger, so every line ends up in the same zerolog stream.

Configuration:

  - level: trace, debug, info, warn, error (default: info)
  - format: json or console (default: json)
  - caller: include file:line (default: false)

Always terminate event chains with Msg or Send, otherwise nothing is
written.
*/
package logging
