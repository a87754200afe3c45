package ws

import (
	"encoding/json"
	"log"
	"sync"

	"medicore/internal/domain"
)

// Registry is the injectable live-connection registry. The in-process Hub
// implements it; a broker-backed implementation can replace it for
// multi-instance deployments.
type Registry interface {
	Register(c *Client)
	Unregister(c *Client)
	Publish(audience domain.Audience, payload interface{})
}

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.Unregister(c)
	}
}

// trySend delivers without blocking. The lock serializes against Close so
// a concurrent disconnect never leaves a send racing a closed channel.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains the set of live connections keyed by user and by role.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[uint]map[*Client]struct{}
	byRole  map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[uint]map[*Client]struct{}),
		byRole:  make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	if h.byRole[c.Role] == nil {
		h.byRole[c.Role] = make(map[*Client]struct{})
	}
	h.byRole[c.Role][c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	if m := h.byRole[c.Role]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byRole, c.Role)
		}
	}
}

// Publish pushes payload to every connection whose subscription matches
// the audience. Sends are non-blocking: a slow or dead connection drops
// the message instead of holding up the rest of the fan-out.
func (h *Hub) Publish(audience domain.Audience, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[HUB] marshal: %v", err)
		return
	}
	h.mu.RLock()
	var targets []*Client
	switch audience.Kind {
	case domain.AudienceAll:
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	case domain.AudienceRole:
		for c := range h.byRole[audience.Role] {
			targets = append(targets, c)
		}
	case domain.AudienceUser:
		for c := range h.byUser[audience.UserID] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
