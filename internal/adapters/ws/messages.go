package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/outbound"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypePing        MessageType = "ping"

	// Server to Client message types
	MessageTypeNotification  MessageType = "notification"
	MessageTypeMessage       MessageType = "message"
	MessageTypeWishlistMatch MessageType = "wishlist_match"
	MessageTypeStatus        MessageType = "status"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

// ClientMessage is a message received from a connected client.
type ClientMessage struct {
	Type      MessageType    `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// ServerMessage is a message pushed to a connected client.
type ServerMessage struct {
	Type      MessageType    `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Error     *string        `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]any),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// ParseClientMessage parses a JSON message from a client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrUnknownMessageType
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSubscribe, MessageTypeUnsubscribe, MessageTypePing:
		return nil
	default:
		return shared.ErrUnknownMessageType
	}
}

// convertEvent maps a broadcast event onto the wire message the client sees.
func convertEvent(event outbound.Event) *ServerMessage {
	msg := &ServerMessage{
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}

	switch event.Type {
	case outbound.EventTypeNotification:
		msg.Type = MessageTypeNotification
	case outbound.EventTypeMessage:
		msg.Type = MessageTypeMessage
	case outbound.EventTypeWishlistMatch:
		msg.Type = MessageTypeWishlistMatch
	default:
		msg.Type = MessageTypeStatus
	}

	return msg
}
