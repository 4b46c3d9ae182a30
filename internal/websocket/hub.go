// Package websocket streams LED guidance frames to connected display clients
package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected display clients and fans frames out to
// all of them. Displays are pure listeners: the desktop front-end subscribes
// and renders blinking slot labels.
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ClientID]; ok {
				close(old.send)
			}
			h.clients[client.ClientID] = client
			h.mu.Unlock()
			log.Printf("🖥️ Display connected: %s", client.ClientID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ClientID]; ok {
				delete(h.clients, client.ClientID)
				close(client.send)
				log.Printf("📴 Display disconnected: %s", client.ClientID)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to every connected client. Clients whose buffer
// is full are skipped; a stalled display must not hold up the blink loop.
func (h *Hub) Broadcast(message interface{}) {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- jsonMsg:
		default:
		}
	}
}

// ClientCount returns the number of connected displays
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
