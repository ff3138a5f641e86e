// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/metrics"
	"github.com/tomtom215/cinemetrics/internal/recommend"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeRecommendations = "recommendations"
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
)

// broadcastBuffer bounds queued snapshots across all users.
const broadcastBuffer = 256

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// delivery is a message addressed to every client of one user.
type delivery struct {
	userID  string
	message Message
}

// Hub tracks connected clients per user and fans recommendation snapshots
// out to the clients of the user they belong to.
//
// Hub implements recommend.Observer. Publish never blocks: when the
// broadcast queue is full the snapshot is dropped and counted.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan delivery
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

var _ recommend.Observer = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan delivery, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logging.WithComponent("websocket-hub"),
	}
}

// RunWithContext processes registrations and deliveries until ctx is done,
// then closes every client and returns ctx.Err().
//
// Shutdown is checked first, then lifecycle events, then deliveries, so a
// client registered before a snapshot is published always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.RecordWSConnection(true)
	h.logger.Info().
		Str("user_id", client.userID).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.RecordWSConnection(false)
	h.logger.Info().
		Str("user_id", client.userID).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

// logGracefulShutdown closes every client and logs the shutdown reason.
// Context cancellation is expected here and is not logged as an error.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// deliver sends d to the matching clients in ID order. Clients whose send
// buffer is full are disconnected; they can reconnect and receive a fresh
// snapshot.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		if client.userID != d.userID {
			continue
		}
		select {
		case client.send <- d.message:
		default:
			metrics.RecordWSError("slow_client")
			h.logger.Warn().
				Str("user_id", client.userID).
				Uint64("client_id", client.id).
				Msg("websocket client too slow, disconnecting")
			close(client.send)
			delete(h.clients, client)
			metrics.RecordWSConnection(false)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		close(client.send)
		delete(h.clients, client)
		metrics.RecordWSConnection(false)
	}
}

func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// Publish queues snap for the clients of snap.UserID.
func (h *Hub) Publish(snap recommend.Snapshot) {
	d := delivery{
		userID:  snap.UserID,
		message: Message{Type: MessageTypeRecommendations, Data: snap},
	}

	select {
	case h.broadcast <- d:
	default:
		metrics.RecordWSError("broadcast_full")
		h.logger.Warn().
			Str("user_id", snap.UserID).
			Uint64("cycle_id", snap.CycleID).
			Msg("broadcast channel full, dropping recommendations snapshot")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of clients connected for userID.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.userID == userID {
			n++
		}
	}
	return n
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
