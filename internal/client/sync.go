// Package client holds the conversation store a chat client keeps in
// memory: the history with the currently selected partner, kept live
// by the pushed lifecycle events.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/driftchat/driftchat-server/internal/model"
)

// Lister fetches conversation history from the server.
type Lister interface {
	List(ctx context.Context, requesterID, otherID uuid.UUID) ([]model.MessageView, error)
}

// EventSource attaches and detaches handlers for pushed events. At
// most one handler per event kind is active at a time.
type EventSource interface {
	On(kind model.EventKind, handler func(model.MessageView))
	Off(kind model.EventKind)
}

// Store is the client's view of one conversation. Selecting a partner
// replaces the list wholesale; pushed events keep it current until the
// next selection. All methods are safe for concurrent use.
type Store struct {
	userID uuid.UUID
	lister Lister
	source EventSource

	mu       sync.Mutex
	selected uuid.UUID
	messages []model.MessageView
	index    map[uuid.UUID]int
}

// NewStore creates a store for the given local user.
func NewStore(userID uuid.UUID, lister Lister, source EventSource) *Store {
	return &Store{
		userID: userID,
		lister: lister,
		source: source,
		index:  make(map[uuid.UUID]int),
	}
}

// Select switches the conversation to a new partner. The previous list
// is discarded, the full history is fetched, and the event handlers
// are resubscribed. Detach-before-attach keeps repeated select cycles
// from double-delivering events.
func (s *Store) Select(ctx context.Context, partnerID uuid.UUID) ([]model.MessageView, error) {
	views, err := s.lister.List(ctx, s.userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	s.mu.Lock()
	s.selected = partnerID
	s.messages = s.messages[:0]
	s.index = make(map[uuid.UUID]int, len(views))
	for _, view := range views {
		s.appendLocked(view)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.Unsubscribe()
	s.source.On(model.EventNewMessage, s.handleNewMessage)
	s.source.On(model.EventMessageEdited, s.handleMessageEdited)
	s.source.On(model.EventMessageDeleted, s.handleMessageDeleted)

	return snapshot, nil
}

// Unsubscribe detaches all event handlers. The current list stays as
// it was; it just stops updating.
func (s *Store) Unsubscribe() {
	s.source.Off(model.EventNewMessage)
	s.source.Off(model.EventMessageEdited)
	s.source.Off(model.EventMessageDeleted)
}

// Selected returns the current partner, or uuid.Nil when none.
func (s *Store) Selected() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Messages returns a copy of the current conversation, oldest first.
func (s *Store) Messages() []model.MessageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) handleNewMessage(view model.MessageView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == uuid.Nil || !view.Matches(s.userID, s.selected) {
		return
	}
	if _, exists := s.index[view.ID]; exists {
		return
	}
	s.appendLocked(view)
}

func (s *Store) handleMessageEdited(view model.MessageView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[view.ID]
	if !exists {
		return
	}
	s.messages[i].Text = view.Text
	s.messages[i].Edited = view.Edited
	s.messages[i].EditedAt = view.EditedAt
}

// handleMessageDeleted patches the message in place with the pushed
// projection. The payload is the recipient's own view, so whatever the
// server decided this user may still see is applied verbatim.
func (s *Store) handleMessageDeleted(view model.MessageView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[view.ID]
	if !exists {
		return
	}
	s.messages[i].Text = view.Text
	s.messages[i].Image = view.Image
}

func (s *Store) appendLocked(view model.MessageView) {
	s.index[view.ID] = len(s.messages)
	s.messages = append(s.messages, view)
}

func (s *Store) snapshotLocked() []model.MessageView {
	out := make([]model.MessageView, len(s.messages))
	copy(out, s.messages)
	return out
}
