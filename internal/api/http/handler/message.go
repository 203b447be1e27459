package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
)

// ConversationService defines message history and lifecycle operations.
type ConversationService interface {
	Contacts(ctx context.Context, requesterID uuid.UUID) ([]model.Profile, error)
	List(ctx context.Context, requesterID, otherID uuid.UUID) ([]model.MessageView, error)
	Send(ctx context.Context, params model.SendMessageParams) (model.MessageView, error)
	Edit(ctx context.Context, messageID, editorID uuid.UUID, newText string) (model.MessageView, error)
	DeleteForUser(ctx context.Context, messageID, requesterID uuid.UUID) (model.MessageView, error)
}

// Message handles HTTP endpoints for conversations.
type Message struct {
	conversations  ConversationService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewMessage creates a new Message handler.
func NewMessage(conversations ConversationService, contextManager model.ContextManager, logger *logger.Logger) *Message {
	return &Message{
		conversations:  conversations,
		contextManager: contextManager,
		logger:         logger,
	}
}

type sendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type editMessageRequest struct {
	Text string `json:"text"`
}

// Contacts returns every user except the requester, for the sidebar.
func (h *Message) Contacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profiles, err := h.conversations.Contacts(r.Context(), userID)
	if err != nil {
		h.logger.Error("contacts lookup failed", "user_id", userID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// List returns the requester's view of the history with another user.
func (h *Message) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	otherID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := h.conversations.List(r.Context(), userID, otherID)
	if err != nil {
		h.logger.Error("history lookup failed", "user_id", userID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// Send creates a new message to the user in the path.
func (h *Message) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	receiverID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.conversations.Send(r.Context(), model.SendMessageParams{
		SenderID:   userID,
		ReceiverID: receiverID,
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		h.logger.Error("send failed", "user_id", userID, "receiver_id", receiverID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// Edit replaces the body of the message in the path.
func (h *Message) Edit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messageID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req editMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.conversations.Edit(r.Context(), messageID, userID, req.Text)
	if err != nil {
		h.logger.Error("edit failed", "user_id", userID, "message_id", messageID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Delete hides the message in the path for the requester.
func (h *Message) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messageID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	view, err := h.conversations.DeleteForUser(r.Context(), messageID, userID)
	if err != nil {
		h.logger.Error("delete failed", "user_id", userID, "message_id", messageID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}
