package ws

import (
	"testing"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type": "ping"}`))
	require.NoError(t, err)
	assert.Equal(t, MessageTypePing, msg.Type)
	require.NoError(t, msg.Validate())
}

func TestParseClientMessageRejectsGarbage(t *testing.T) {
	_, err := ParseClientMessage([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseClientMessage([]byte(`{"data": {}}`))
	require.ErrorIs(t, err, shared.ErrUnknownMessageType)
}

func TestClientMessageValidateUnknownType(t *testing.T) {
	msg := &ClientMessage{Type: "place_bid"}
	require.ErrorIs(t, msg.Validate(), shared.ErrUnknownMessageType)
}

func TestConvertEvent(t *testing.T) {
	cases := []struct {
		event outbound.EventType
		want  MessageType
	}{
		{outbound.EventTypeNotification, MessageTypeNotification},
		{outbound.EventTypeMessage, MessageTypeMessage},
		{outbound.EventTypeWishlistMatch, MessageTypeWishlistMatch},
		{outbound.EventTypeError, MessageTypeStatus},
	}

	for _, tc := range cases {
		msg := convertEvent(outbound.Event{
			Type:      tc.event,
			Data:      map[string]any{"id": "x"},
			Timestamp: 42,
		})
		assert.Equal(t, tc.want, msg.Type)
		assert.Equal(t, "x", msg.Data["id"])
		assert.EqualValues(t, 42, msg.Timestamp)
	}
}
