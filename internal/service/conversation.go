package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
)

// Codec encrypts message bodies for storage and decrypts them for
// display. Decrypt is fail-open and returns its input on bad data.
type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) string
}

// Pusher delivers a lifecycle event to one user's live connection, if
// any. Implemented by realtime.Notifier.
type Pusher interface {
	Push(userID uuid.UUID, kind model.EventKind, view model.MessageView)
}

// Conversation orchestrates message create/read/update/delete,
// enforcing visibility rules and triggering post-commit pushes.
type Conversation struct {
	messageStore model.MessageStore
	userStore    model.UserStore
	storage      model.Storage
	codec        Codec
	pusher       Pusher
	logger       *logger.Logger
}

func NewConversation(
	messageStore model.MessageStore,
	userStore model.UserStore,
	storage model.Storage,
	codec Codec,
	pusher Pusher,
	logger *logger.Logger,
) *Conversation {
	return &Conversation{
		messageStore: messageStore,
		userStore:    userStore,
		storage:      storage,
		codec:        codec,
		pusher:       pusher,
		logger:       logger,
	}
}

// Project renders a message for one viewer. It is the single place
// where deletion visibility and decryption are applied; every path
// that hands a message across the boundary goes through it.
func (s *Conversation) Project(m model.Message, viewerID uuid.UUID) model.MessageView {
	view := model.MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Edited:     m.Edited,
		EditedAt:   m.EditedAt,
		CreatedAt:  m.CreatedAt,
	}

	if m.HiddenFor(viewerID) {
		view.Text = model.DeletedPlaceholder
		view.Image = ""
		return view
	}

	view.Text = s.codec.Decrypt(m.Text)
	view.Image = m.Image
	return view
}

// Send validates, encrypts and persists a new message, then pushes it
// to each present participant. The returned view carries the plaintext
// back to the sender; ciphertext never leaves the service.
func (s *Conversation) Send(ctx context.Context, params model.SendMessageParams) (model.MessageView, error) {
	if params.Text == "" && params.Image == "" {
		return model.MessageView{}, fmt.Errorf("%w: message requires text or image", model.ErrValidation)
	}

	if _, err := s.userStore.GetByID(ctx, params.ReceiverID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.MessageView{}, fmt.Errorf("%w: receiver does not exist", model.ErrNotFound)
		}
		return model.MessageView{}, fmt.Errorf("failed to get receiver: %w", err)
	}

	image, err := s.resolveImage(ctx, params.SenderID, params.Image)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to store image: %w", err)
	}

	ciphertext, err := s.codec.Encrypt(params.Text)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to encrypt message: %w", err)
	}

	saved, err := s.messageStore.Create(ctx, model.Message{
		ID:         uuid.New(),
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		Text:       ciphertext,
		Image:      image,
	})
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to create message: %w", err)
	}

	s.notifyParticipants(saved, model.EventNewMessage)

	return s.Project(saved, params.SenderID), nil
}

// List returns the requester's view of the full conversation history
// with another user, oldest first. Pure read: no pushes.
func (s *Conversation) List(ctx context.Context, requesterID, otherID uuid.UUID) ([]model.MessageView, error) {
	messages, err := s.messageStore.GetBetween(ctx, requesterID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	views := make([]model.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, s.Project(m, requesterID))
	}

	return views, nil
}

// Edit replaces a message body. Only a participant may edit; a
// non-participant gets NotFound so message existence is not leaked.
// The returned view echoes the editor's own plaintext buffer rather
// than a decrypt round trip.
func (s *Conversation) Edit(ctx context.Context, messageID, editorID uuid.UUID, newText string) (model.MessageView, error) {
	if newText == "" {
		return model.MessageView{}, fmt.Errorf("%w: edited text must not be empty", model.ErrValidation)
	}

	message, err := s.messageStore.GetByID(ctx, messageID)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to get message: %w", err)
	}
	if !message.IsParticipant(editorID) {
		return model.MessageView{}, model.ErrNotFound
	}

	ciphertext, err := s.codec.Encrypt(newText)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to encrypt message: %w", err)
	}

	updated, err := s.messageStore.UpdateText(ctx, messageID, ciphertext, time.Now())
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to update message: %w", err)
	}

	s.notifyParticipants(updated, model.EventMessageEdited)

	view := s.Project(updated, editorID)
	view.Text = newText
	return view, nil
}

// DeleteForUser hides a message for the requester and rederives the
// global deleted flag. The echo is always the deleted projection,
// regardless of whether the requester had already hidden it.
func (s *Conversation) DeleteForUser(ctx context.Context, messageID, requesterID uuid.UUID) (model.MessageView, error) {
	message, err := s.messageStore.GetByID(ctx, messageID)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to get message: %w", err)
	}
	if !message.IsParticipant(requesterID) {
		return model.MessageView{}, model.ErrNotFound
	}

	updated, err := s.messageStore.MarkDeletedFor(ctx, messageID, requesterID)
	if err != nil {
		return model.MessageView{}, fmt.Errorf("failed to mark message deleted: %w", err)
	}

	s.notifyParticipants(updated, model.EventMessageDeleted)

	view := s.Project(updated, requesterID)
	view.Text = model.DeletedPlaceholder
	view.Image = ""
	return view, nil
}

// Contacts lists every user except the requester, for the sidebar.
func (s *Conversation) Contacts(ctx context.Context, requesterID uuid.UUID) ([]model.Profile, error) {
	users, err := s.userStore.GetAllExcept(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	profiles := make([]model.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.ToProfile())
	}

	return profiles, nil
}

// notifyParticipants pushes the event to both sides with each
// recipient's own projection. Fire-and-forget: the triggering request
// has already been persisted and never waits on delivery.
func (s *Conversation) notifyParticipants(m model.Message, kind model.EventKind) {
	for _, participant := range []uuid.UUID{m.SenderID, m.ReceiverID} {
		s.pusher.Push(participant, kind, s.Project(m, participant))
	}
}

// resolveImage stores inline image payloads and passes URLs through.
func (s *Conversation) resolveImage(ctx context.Context, senderID uuid.UUID, image string) (string, error) {
	if image == "" || !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	contentType, data, err := DecodeDataURL(image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	key := fmt.Sprintf("messages/%s/%s", senderID, uuid.New())
	url, err := s.storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	return url, nil
}
