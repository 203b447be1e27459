package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the presence directory: it maps a user ID to at most one
// live connection. It is injected into the notifier and the websocket
// handler rather than shared as a package global.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Connect registers a client as the user's live connection. A previous
// connection for the same user is displaced (last-connected wins) and
// returned so the caller can close it.
func (r *Registry) Connect(userID uuid.UUID, client *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	displaced := r.clients[userID]
	r.clients[userID] = client
	return displaced
}

// Disconnect removes the user's presence entry, but only if it still
// points at the given client. A stale disconnect from a displaced
// connection must not evict its replacement.
func (r *Registry) Disconnect(userID uuid.UUID, client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.clients[userID]; ok && current == client {
		delete(r.clients, userID)
		return true
	}
	return false
}

// Get returns the user's live connection, if any.
func (r *Registry) Get(userID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[userID]
	return client, ok
}

// Online reports whether the user has a live connection.
func (r *Registry) Online(userID uuid.UUID) bool {
	_, ok := r.Get(userID)
	return ok
}
