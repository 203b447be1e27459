package realtime

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
)

// Notifier pushes message lifecycle events to connected participants.
// Semantics are presence-or-drop: a user without a live connection
// simply misses the push and reconciles on their next fetch.
type Notifier struct {
	registry *Registry
	logger   *logger.Logger
}

// NewNotifier creates a Notifier on top of a presence registry.
func NewNotifier(registry *Registry, logger *logger.Logger) *Notifier {
	return &Notifier{
		registry: registry,
		logger:   logger,
	}
}

// Push delivers the view to the user's live connection, if any. The
// payload is the recipient's own projection; callers build it per
// recipient, never broadcast verbatim. Failures are swallowed: no
// push outcome ever reaches the request that triggered it.
func (n *Notifier) Push(userID uuid.UUID, kind model.EventKind, view model.MessageView) {
	client, ok := n.registry.Get(userID)
	if !ok {
		return
	}

	data, err := json.Marshal(model.Event{Type: kind, Payload: view})
	if err != nil {
		n.logger.Error("failed to marshal push event", "kind", kind, "error", err)
		return
	}

	if !client.enqueue(data) {
		n.logger.Warn("push dropped, connection closing or buffer full", "user_id", userID, "kind", kind)
	}
}
