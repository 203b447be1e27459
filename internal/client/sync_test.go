package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftchat/driftchat-server/internal/model"
)

// fakeSource keeps every attached handler, so a subscribe that forgets
// to detach first shows up as double delivery.
type fakeSource struct {
	handlers map[model.EventKind][]func(model.MessageView)
}

func newFakeSource() *fakeSource {
	return &fakeSource{handlers: make(map[model.EventKind][]func(model.MessageView))}
}

func (s *fakeSource) On(kind model.EventKind, handler func(model.MessageView)) {
	s.handlers[kind] = append(s.handlers[kind], handler)
}

func (s *fakeSource) Off(kind model.EventKind) {
	delete(s.handlers, kind)
}

func (s *fakeSource) Emit(kind model.EventKind, view model.MessageView) {
	for _, handler := range s.handlers[kind] {
		handler(view)
	}
}

type fakeLister struct {
	history map[uuid.UUID][]model.MessageView
	err     error
	calls   int
}

func (l *fakeLister) List(_ context.Context, _, otherID uuid.UUID) ([]model.MessageView, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.history[otherID], nil
}

func view(sender, receiver uuid.UUID, text string) model.MessageView {
	return model.MessageView{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  time.Now(),
	}
}

func TestStore_Select_ReplacesHistory(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	lister := &fakeLister{history: map[uuid.UUID][]model.MessageView{
		bob:   {view(me, bob, "hi bob"), view(bob, me, "hi back")},
		carol: {view(carol, me, "hey")},
	}}
	store := NewStore(me, lister, newFakeSource())

	views, err := store.Select(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "hi bob", views[0].Text)
	assert.Equal(t, bob, store.Selected())

	views, err = store.Select(context.Background(), carol)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "hey", views[0].Text)
	assert.Equal(t, carol, store.Selected())
	assert.Equal(t, 2, lister.calls)
}

func TestStore_Select_FetchError(t *testing.T) {
	me := uuid.New()
	lister := &fakeLister{err: errors.New("network down")}
	store := NewStore(me, lister, newFakeSource())

	_, err := store.Select(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, store.Selected())
}

func TestStore_NewMessage_AppendsOnlyForSelectedPartner(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	source := newFakeSource()
	store := NewStore(me, &fakeLister{}, source)
	_, err := store.Select(context.Background(), bob)
	require.NoError(t, err)

	source.Emit(model.EventNewMessage, view(bob, me, "from bob"))
	source.Emit(model.EventNewMessage, view(carol, me, "from carol"))
	source.Emit(model.EventNewMessage, view(me, bob, "to bob"))

	messages := store.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "from bob", messages[0].Text)
	assert.Equal(t, "to bob", messages[1].Text)
}

func TestStore_NewMessage_DeduplicatesByID(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()

	source := newFakeSource()
	store := NewStore(me, &fakeLister{}, source)
	_, err := store.Select(context.Background(), bob)
	require.NoError(t, err)

	v := view(bob, me, "once")
	source.Emit(model.EventNewMessage, v)
	source.Emit(model.EventNewMessage, v)

	assert.Len(t, store.Messages(), 1)
}

func TestStore_NewMessage_IgnoredBeforeSelect(t *testing.T) {
	me := uuid.New()
	source := newFakeSource()
	store := NewStore(me, &fakeLister{}, source)

	// Handlers are only attached by Select, so nothing listens yet.
	source.Emit(model.EventNewMessage, view(uuid.New(), me, "early"))

	assert.Empty(t, store.Messages())
}

func TestStore_MessageEdited_PatchesInPlace(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()

	original := view(bob, me, "helo")
	lister := &fakeLister{history: map[uuid.UUID][]model.MessageView{bob: {original}}}
	source := newFakeSource()
	store := NewStore(me, lister, source)
	_, err := store.Select(context.Background(), bob)
	require.NoError(t, err)

	editedAt := time.Now()
	patched := original
	patched.Text = "hello"
	patched.Edited = true
	patched.EditedAt = &editedAt
	source.Emit(model.EventMessageEdited, patched)

	messages := store.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)
	assert.True(t, messages[0].Edited)
	require.NotNil(t, messages[0].EditedAt)

	// Unknown ID is a no-op.
	source.Emit(model.EventMessageEdited, view(bob, me, "phantom"))
	assert.Len(t, store.Messages(), 1)
}

func TestStore_MessageDeleted_PatchesInPlace(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()

	original := view(bob, me, "gone soon")
	original.Image = "http://media/x"
	lister := &fakeLister{history: map[uuid.UUID][]model.MessageView{bob: {original}}}
	source := newFakeSource()
	store := NewStore(me, lister, source)
	_, err := store.Select(context.Background(), bob)
	require.NoError(t, err)

	deleted := original
	deleted.Text = model.DeletedPlaceholder
	deleted.Image = ""
	source.Emit(model.EventMessageDeleted, deleted)

	messages := store.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, model.DeletedPlaceholder, messages[0].Text)
	assert.Empty(t, messages[0].Image)
}

func TestStore_Unsubscribe_StopsDelivery(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()

	source := newFakeSource()
	store := NewStore(me, &fakeLister{}, source)
	_, err := store.Select(context.Background(), bob)
	require.NoError(t, err)

	store.Unsubscribe()
	source.Emit(model.EventNewMessage, view(bob, me, "missed"))

	assert.Empty(t, store.Messages())
}

func TestStore_RepeatedSelect_NeverDoubleDelivers(t *testing.T) {
	me := uuid.New()
	bob := uuid.New()

	source := newFakeSource()
	store := NewStore(me, &fakeLister{}, source)

	for i := 0; i < 3; i++ {
		_, err := store.Select(context.Background(), bob)
		require.NoError(t, err)
	}

	source.Emit(model.EventNewMessage, view(bob, me, "once"))

	assert.Len(t, store.Messages(), 1)
}
