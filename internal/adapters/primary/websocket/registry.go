package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the in-memory presence table: which user identity currently has
// a live, registered connection. It holds a forward map (user -> connection)
// and a reverse map (connection -> user) so that removal on disconnect is a
// direct lookup instead of a scan.
//
// The registry enforces at most one live connection per user: a re-register
// overwrites the previous binding (last write wins) and the superseded
// connection becomes unreachable through the registry until it disconnects.
// Presence is process-local; each server instance keeps its own registry.
type Registry struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]string
	byConn map[string]uuid.UUID
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[uuid.UUID]string),
		byConn: make(map[string]uuid.UUID),
	}
}

// Register binds the user to the given connection identifier, overwriting any
// previous binding for that user.
func (r *Registry) Register(userID uuid.UUID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[userID]; ok {
		delete(r.byConn, prev)
	}
	r.byUser[userID] = connID
	r.byConn[connID] = userID
}

// Lookup returns the connection identifier currently bound to the user.
// Absence means the user is offline; it is not an error.
func (r *Registry) Lookup(userID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byUser[userID]
	return connID, ok
}

// Remove erases the binding for the given connection identifier. A connection
// that was superseded by a re-register no longer appears in the reverse map,
// so its late disconnect is a no-op and cannot clobber the newer binding.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	delete(r.byUser, userID)
}

// ConnectedUsers returns a snapshot of all user identities with a live
// registered connection.
func (r *Registry) ConnectedUsers() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	return users
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
