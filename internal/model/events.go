package model

// EventKind names a message lifecycle event pushed over the socket.
type EventKind string

const (
	// EventNewMessage is emitted after a message is created.
	EventNewMessage EventKind = "newMessage"
	// EventMessageEdited is emitted after a message body is replaced.
	EventMessageEdited EventKind = "messageEdited"
	// EventMessageDeleted is emitted after a participant hides a message.
	EventMessageDeleted EventKind = "messageDeleted"
)

// Event is the wire envelope for pushed lifecycle events. The payload
// is the recipient's own projection, not a broadcast-shared one.
type Event struct {
	Type    EventKind   `json:"type"`
	Payload MessageView `json:"payload"`
}
