// Package eventbus is the in-process publish/subscribe registry that
// decouples a module's state changes from other modules' reactions. It is
// constructed once at application start and handed to every service;
// subscriptions live only for the process lifetime.
package eventbus

import (
	"sync"

	"github.com/rs/zerolog"
)

// Event names published by the feature services.
const (
	CollectionCreated = "collection.created"
	CollectionUpdated = "collection.updated"
	CollectionDeleted = "collection.deleted"

	ItemCreated     = "item.created"
	ItemUpdated     = "item.updated"
	ItemDeleted     = "item.deleted"
	ItemSaleToggled = "item.sale_toggled"

	WishlistMatchFound = "wishlist.match_found"

	MessageSent         = "message.sent"
	NotificationCreated = "notification.created"

	UserUpdated = "user.updated"
)

type subscription struct {
	id      uint64
	handler func(payload any)
}

// Bus is a synchronous single-process fan-out primitive. Publish invokes
// subscribers in registration order; a panicking subscriber is isolated so
// delivery continues to the rest and never reaches the publisher.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	logger zerolog.Logger
}

// New creates an event bus.
func New(logger zerolog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers handler for event and returns the matching
// unsubscribe function. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(event string, handler func(payload any)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[event] = append(b.subs[event], subscription{id: id, handler: handler})

	b.logger.Debug().Str("event", event).Int("subscribers", len(b.subs[event])).Msg("Subscriber registered")

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subs[event]
		for i, s := range subs {
			if s.id == id {
				b.subs[event] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subs[event]) == 0 {
			delete(b.subs, event)
		}
	}
}

// Publish delivers payload to every current subscriber of event,
// synchronously and in registration order.
func (b *Bus) Publish(event string, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.RUnlock()

	b.logger.Debug().Str("event", event).Int("subscribers", len(subs)).Msg("Publishing event")

	for _, s := range subs {
		b.dispatch(event, s, payload)
	}
}

// dispatch isolates one subscriber invocation so a bad handler cannot block
// delivery to the others.
func (b *Bus) dispatch(event string, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", event).
				Uint64("subscription_id", s.id).
				Interface("panic", r).
				Msg("Event subscriber panicked")
		}
	}()

	s.handler(payload)
}
