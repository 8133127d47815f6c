package outbound

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of event being broadcasted to clients
type EventType string

const (
	EventTypeNotification  EventType = "notification.created"
	EventTypeMessage       EventType = "message.sent"
	EventTypeWishlistMatch EventType = "wishlist.match_found"
	EventTypeError         EventType = "error"
)

// Event represents a broadcast event addressed to one user
type Event struct {
	Type      EventType      `json:"type"`
	UserID    uuid.UUID      `json:"user_id"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// Broadcaster defines the interface for pushing events to connected clients
// across service instances. Channels are keyed by user; a client subscribed
// to its own channel receives every event addressed to that user.
type Broadcaster interface {
	// Subscribe subscribes a client to a user's event channel
	Subscribe(ctx context.Context, userID uuid.UUID, clientID string, eventChan chan Event) error

	// Unsubscribe unsubscribes a client from a user's event channel
	Unsubscribe(ctx context.Context, userID uuid.UUID, clientID string) error

	// Publish publishes an event to all clients on a user's channel
	Publish(ctx context.Context, userID uuid.UUID, event Event) error

	// IsSubscribed checks whether a client is on a user's channel
	IsSubscribed(ctx context.Context, userID uuid.UUID, clientID string) bool
}

// EventBus is the in-process pub/sub registry used to decouple feature
// services from each other.
type EventBus interface {
	// Subscribe registers a handler and returns its unsubscribe function
	Subscribe(event string, handler func(payload any)) func()

	// Publish delivers payload to current subscribers synchronously
	Publish(event string, payload any)
}
