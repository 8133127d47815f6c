package app

import (
	"context"
	"testing"

	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	store       *fakeStore
	service     *MessageService
	notifier    *fakeNotifier
	aliceID     uuid.UUID
	bobID       uuid.UUID
	notifySvc   *NotificationService
	broadcaster *fakeBroadcaster
}

type fakeBroadcaster struct {
	events []outbound.Event
}

func (f *fakeBroadcaster) Subscribe(context.Context, uuid.UUID, string, chan outbound.Event) error {
	return nil
}

func (f *fakeBroadcaster) Unsubscribe(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeBroadcaster) Publish(_ context.Context, _ uuid.UUID, event outbound.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeBroadcaster) IsSubscribed(context.Context, uuid.UUID, string) bool { return false }

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	store := newFakeStore()
	aliceID := uuid.New()
	bobID := uuid.New()
	store.users[aliceID] = &shared.User{ID: aliceID, Email: "alice@example.com"}
	store.users[bobID] = &shared.User{ID: bobID, Email: "bob@example.com"}

	notifier := &fakeNotifier{}
	broadcaster := &fakeBroadcaster{}
	notifySvc := NewNotificationService(NotificationServiceParams{
		NotificationRepo: &fakeNotificationRepo{store: store},
		Broadcaster:      broadcaster,
		Bus:              eventbus.New(zerolog.Nop()),
		Logger:           zerolog.Nop(),
	})

	service := NewMessageService(MessageServiceParams{
		MessageRepo: &fakeMessageRepo{store: store},
		UserRepo:    &fakeUserRepo{store: store},
		Notifier:    notifier,
		Validator:   validation.New(zerolog.Nop()),
		Bus:         eventbus.New(zerolog.Nop()),
		Logger:      zerolog.Nop(),
	})
	return &messageFixture{store: store, service: service, notifier: notifier,
		aliceID: aliceID, bobID: bobID, notifySvc: notifySvc, broadcaster: broadcaster}
}

func TestSendMessageNotifiesRecipient(t *testing.T) {
	f := newMessageFixture(t)

	m, err := f.service.SendMessage(context.Background(), inbound.SendMessageRequest{
		SenderID:    f.aliceID,
		RecipientID: f.bobID,
		Content:     "Is the first pressing still available?",
	})
	require.NoError(t, err)

	assert.False(t, m.Read)
	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, f.bobID, f.notifier.requests[0].UserID)
	assert.Equal(t, notification.TypeMessage, f.notifier.requests[0].Type)
}

func TestSendMessageRequiresRecipient(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.service.SendMessage(context.Background(), inbound.SendMessageRequest{
		SenderID: f.aliceID,
		Content:  "hello",
	})
	require.ErrorIs(t, err, shared.ErrRecipientRequired)
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.service.SendMessage(context.Background(), inbound.SendMessageRequest{
		SenderID:    f.aliceID,
		RecipientID: uuid.New(),
		Content:     "hello",
	})
	require.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestSendMessageRejectsSelfAndEmpty(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.service.SendMessage(ctx, inbound.SendMessageRequest{
		SenderID:    f.aliceID,
		RecipientID: f.aliceID,
		Content:     "note to self",
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)

	_, err = f.service.SendMessage(ctx, inbound.SendMessageRequest{
		SenderID:    f.aliceID,
		RecipientID: f.bobID,
		Content:     "   ",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, f.notifier.count())
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	m, err := f.service.SendMessage(ctx, inbound.SendMessageRequest{
		SenderID:    f.aliceID,
		RecipientID: f.bobID,
		Content:     "ping",
	})
	require.NoError(t, err)

	require.ErrorIs(t, f.service.MarkRead(ctx, f.aliceID, m.ID), shared.ErrForbidden)
	require.NoError(t, f.service.MarkRead(ctx, f.bobID, m.ID))
	assert.True(t, f.store.messages[m.ID].Read)
}

func TestNotifyBroadcastsToUserChannel(t *testing.T) {
	f := newMessageFixture(t)

	n, err := f.notifySvc.Notify(context.Background(), inbound.NotifyRequest{
		UserID:  f.bobID,
		Type:    notification.TypeAlert,
		Content: "Price drop on a watched item",
	})
	require.NoError(t, err)

	require.Len(t, f.broadcaster.events, 1)
	event := f.broadcaster.events[0]
	assert.Equal(t, outbound.EventTypeNotification, event.Type)
	assert.Equal(t, f.bobID, event.UserID)
	assert.Equal(t, n.ID.String(), event.Data["id"])
}

func TestNotifyMapsBroadcastEventType(t *testing.T) {
	cases := []struct {
		name string
		typ  notification.Type
		want outbound.EventType
	}{
		{"message", notification.TypeMessage, outbound.EventTypeMessage},
		{"wishlist match", notification.TypeWishlistMatch, outbound.EventTypeWishlistMatch},
		{"sale", notification.TypeSale, outbound.EventTypeNotification},
		{"alert", notification.TypeAlert, outbound.EventTypeNotification},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMessageFixture(t)
			related := uuid.New()

			n, err := f.notifySvc.Notify(context.Background(), inbound.NotifyRequest{
				UserID:    f.bobID,
				Type:      tc.typ,
				Content:   "ping",
				RelatedID: &related,
			})
			require.NoError(t, err)

			require.Len(t, f.broadcaster.events, 1)
			event := f.broadcaster.events[0]
			assert.Equal(t, tc.want, event.Type)
			assert.Equal(t, related.String(), event.Data["related_id"])
			assert.Equal(t, n.CreatedAt.Unix(), event.Timestamp)
		})
	}
}

func TestNotifyRejectsInvalidType(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.notifySvc.Notify(context.Background(), inbound.NotifyRequest{
		UserID:  f.bobID,
		Type:    "carrier-pigeon",
		Content: "hello",
	})
	require.ErrorIs(t, err, shared.ErrInvalidRequest)
	assert.Empty(t, f.store.notifications)
}

func TestMarkAllRead(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.notifySvc.Notify(ctx, inbound.NotifyRequest{
			UserID:  f.bobID,
			Type:    notification.TypeAlert,
			Content: "ping",
		})
		require.NoError(t, err)
	}

	require.NoError(t, f.notifySvc.MarkAllRead(ctx, f.bobID))
	for _, n := range f.store.notifications {
		assert.True(t, n.Read)
	}
}
