package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
	"github.com/driftchat/driftchat-server/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth already gates the route; cross-origin browser
	// clients carry the cookie or bearer header themselves.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS upgrades authenticated requests to a WebSocket connection and
// registers them for live message delivery.
type WS struct {
	registry       *realtime.Registry
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewWS creates a new WS handler.
func NewWS(registry *realtime.Registry, contextManager model.ContextManager, logger *logger.Logger) *WS {
	return &WS{
		registry:       registry,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Serve upgrades the connection and runs the read and write pumps
// until the client disconnects. A second connection for the same user
// displaces the first.
func (h *WS) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Error("websocket upgrade failed", "user_id", userID, "error", err.Error())
		return
	}

	client := realtime.NewClient(userID, conn)
	if displaced := h.registry.Connect(userID, client); displaced != nil {
		displaced.Close()
	}
	h.logger.Info("websocket connected", "user_id", userID)

	go client.WritePump()
	client.ReadPump(func() {
		if h.registry.Disconnect(userID, client) {
			h.logger.Info("websocket disconnected", "user_id", userID)
		}
	})
}
