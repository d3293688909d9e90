// Package websocket delivers notifications to connected clients in real time.
// The flow is one-directional: the server pushes, clients only listen.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/meeras/brigadier/internal/pkg/logger"
)

// Envelope is the JSON frame written to clients.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients, keyed by user ID.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run handles client registrations. It blocks and is meant to be started
// in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	logger.Debug().
		Str("userID", client.userID).
		Msg("WebSocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	logger.Debug().
		Str("userID", client.userID).
		Msg("WebSocket client unregistered")
}

// NotifyUsers pushes a payload to every connected client of the given users.
// Users without an open connection are skipped silently.
func (h *Hub) NotifyUsers(userIDs []string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: "notification", Payload: payload})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal websocket payload")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for client := range h.clients[userID] {
			client.trySend(data)
		}
	}
}

// NotifyAll pushes a payload to every connected client.
func (h *Hub) NotifyAll(payload interface{}) {
	data, err := json.Marshal(Envelope{Type: "notification", Payload: payload})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal websocket payload")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.clients {
		for client := range conns {
			client.trySend(data)
		}
	}
}

// ClientCount returns the number of open connections for a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
