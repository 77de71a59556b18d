package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and pushes notices to them. A
// connection starts anonymous; it enters the presence registry only when the
// client sends a register message. Disconnect always removes the connection's
// binding, whether or not it ever registered.
type Hub struct {
	// registry is the presence table shared with the dispatch path.
	registry *Registry

	// conns maps connection identifiers to their clients, including
	// anonymous ones.
	conns map[string]*Client

	// Attach requests from newly upgraded connections.
	Attach chan *Client

	// Detach requests from closing connections.
	Detach chan *Client

	// mu protects the conns map
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the NoticeDispatcher interface.
var _ ports.NoticeDispatcher = (*Hub)(nil)

// NewHub creates a new WebSocket hub with an empty presence registry.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		conns:    make(map[string]*Client),
		Attach:   make(chan *Client),
		Detach:   make(chan *Client),
		logger:   logger.With("component", "websocket_hub"),
	}
}

// Registry exposes the shared presence registry instance.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run starts the hub's connection lifecycle loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Attach:
			h.attachClient(client)

		case client := <-h.Detach:
			h.detachClient(client)
		}
	}
}

// attachClient records a freshly upgraded, still anonymous connection.
func (h *Hub) attachClient(client *Client) {
	h.mu.Lock()
	h.conns[client.ID] = client
	h.mu.Unlock()

	h.logger.Info("connection attached",
		"conn_id", client.ID,
		"user_id", client.UserID,
	)
}

// detachClient drops the connection and its presence binding. Remove is keyed
// by connection identifier, so a stale disconnect after the user re-registered
// elsewhere leaves the newer binding intact.
func (h *Hub) detachClient(client *Client) {
	// CloseSend happens inside the same critical section that removes the
	// conns entry. Notify holds the read lock across its conns lookup and
	// channel send, so it can never send on a channel this close races with:
	// either it sees the entry and sends before the close, or the entry is
	// already gone.
	h.mu.Lock()
	if _, ok := h.conns[client.ID]; ok {
		delete(h.conns, client.ID)
	}
	client.CloseSend()
	h.mu.Unlock()

	h.registry.Remove(client.ID)

	h.logger.Info("connection detached",
		"conn_id", client.ID,
		"user_id", client.UserID,
	)
}

// BindClient enters the client into the presence registry, overwriting any
// previous binding for the same user.
func (h *Hub) BindClient(client *Client) {
	h.registry.Register(client.UserID, client.ID)

	h.logger.Info("client registered",
		"conn_id", client.ID,
		"user_id", client.UserID,
	)
}

// Notify implements ports.NoticeDispatcher. It resolves the recipient's live
// connection at call time and queues exactly one push; when the recipient is
// offline, or the connection's buffer is full, the notice is dropped. The
// caller never sees an error.
func (h *Hub) Notify(recipientID uuid.UUID, notice domain.Notice) {
	connID, ok := h.registry.Lookup(recipientID)
	if !ok {
		h.logger.Debug("recipient offline, dropping notice",
			"user_id", recipientID,
			"event", notice.Event,
		)
		return
	}

	// The read lock is held across both the conns lookup and the channel
	// send so the send cannot race detachClient closing the channel. The
	// send is non-blocking, so the lock is never held waiting on a slow
	// consumer.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.conns[connID]
	if !ok {
		// Registry entry outlived the connection table entry; the pending
		// detach will clean it up.
		return
	}

	select {
	case client.Send <- notice:
		h.logger.Debug("notice queued",
			"user_id", recipientID,
			"event", notice.Event,
			"project_id", notice.ProjectID,
		)
	default:
		h.logger.Warn("client send buffer full, dropping notice",
			"user_id", recipientID,
			"event", notice.Event,
		)
	}
}

// ClientCount returns the number of attached connections, anonymous included.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// IsUserConnected checks if a user has a live registered connection.
func (h *Hub) IsUserConnected(userID uuid.UUID) bool {
	_, ok := h.registry.Lookup(userID)
	return ok
}
