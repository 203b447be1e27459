package model

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DeletedPlaceholder is the text shown in place of a hidden message body.
const DeletedPlaceholder = "deleted message"

// MessageStore defines persistence operations for messages.
type MessageStore interface {
	Create(ctx context.Context, message Message) (Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)
	GetBetween(ctx context.Context, userA, userB uuid.UUID) ([]Message, error)
	UpdateText(ctx context.Context, id uuid.UUID, ciphertext string, editedAt time.Time) (Message, error)
	MarkDeletedFor(ctx context.Context, id uuid.UUID, userID uuid.UUID) (Message, error)
}

// Message represents a stored direct message. Text holds the encrypted
// envelope at rest; plaintext never reaches the store.
type Message struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       string
	Image      string
	DeletedFor []uuid.UUID
	Deleted    bool
	Edited     bool
	EditedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsParticipant reports whether userID is the sender or receiver.
func (m Message) IsParticipant(userID uuid.UUID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// HiddenFor reports whether the message is hidden from viewerID, either
// globally or because the viewer deleted it for themselves.
func (m Message) HiddenFor(viewerID uuid.UUID) bool {
	return m.Deleted || slices.Contains(m.DeletedFor, viewerID)
}

// RecomputeDeleted derives the global deleted flag: true iff both
// participants are in the deletion set.
func (m *Message) RecomputeDeleted() {
	m.Deleted = slices.Contains(m.DeletedFor, m.SenderID) &&
		slices.Contains(m.DeletedFor, m.ReceiverID)
}

// MessageView is the viewer-specific rendering of a message, with the
// body decrypted or replaced depending on the viewer's visibility.
type MessageView struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	Text       string     `json:"text"`
	Image      string     `json:"image,omitempty"`
	Edited     bool       `json:"edited"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Matches reports whether the view belongs to the conversation between
// the two given users, in either direction.
func (v MessageView) Matches(userA, userB uuid.UUID) bool {
	return (v.SenderID == userA && v.ReceiverID == userB) ||
		(v.SenderID == userB && v.ReceiverID == userA)
}

// SendMessageParams contains parameters to create a message.
type SendMessageParams struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       string
	Image      string
}
