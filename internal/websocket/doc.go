// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

/*
Package websocket pushes recommendation snapshots to connected clients.

Each Client subscribes to a single user. The Hub implements
recommend.Observer: every state change of a user's session (loading,
AI list ready, trending fallback) is queued and delivered only to that
user's clients.

Key Components:

  - Hub: Tracks clients and routes snapshots by user ID
  - Client: One connection with a read pump (pings) and a write pump
  - Message: {"type": "...", "data": ...} envelope

Message Types:

  - recommendations: data is a recommend.Snapshot
  - ping / pong: application-level keepalive initiated by the client

Delivery never blocks the publisher. A full hub queue drops the snapshot;
a client whose buffer is full is disconnected. Both are counted in
websocket_errors_total.

Supervision:

RunWithContext is designed to run under suture. Canceling the context
closes every client and returns ctx.Err().
*/
package websocket
