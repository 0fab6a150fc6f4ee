// Package ws pushes cart-updated frames to connected browser tabs. It is
// the transport end of the badge notifier: the in-process bus carries the
// signal, the hub carries the re-fetched count to every open tab of a
// user.
package ws

import (
	"log"
	"sync"
	"sync/atomic"
)

// Event is one frame sent to a tab. Seq increases per frame so a client
// can spot gaps after a reconnect.
type Event struct {
	Op    string `json:"op"`
	Count int    `json:"count"`
	Seq   int64  `json:"seq,omitempty"`
}

// OpCartUpdated tells the tab to redisplay its cart badge.
const OpCartUpdated = "cartUpdated"

// Hub tracks every open connection, grouped by user. A user may have any
// number of tabs open at once.
type Hub struct {
	logger *log.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]bool
	closed  bool

	seq atomic.Int64
}

// NewHub builds an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]map[*Client]bool),
	}
}

// Connections reports how many tabs a user currently has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Shutdown disconnects every client. Used on server stop.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if _, ok := h.clients[c.userID]; !ok {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true
	h.logger.Printf("ws connected: user=%s tabs=%d", c.userID, len(h.clients[c.userID]))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, exists := clients[c]; !exists {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, c.userID)
	}
	c.closeSend()
	h.logger.Printf("ws disconnected: user=%s tabs=%d", c.userID, len(clients))
}

func (h *Hub) nextSeq() int64 {
	return h.seq.Add(1)
}
