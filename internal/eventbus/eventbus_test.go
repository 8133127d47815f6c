package eventbus

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPublishInRegistrationOrder(t *testing.T) {
	bus := New(zerolog.Nop())

	var order []int
	bus.Subscribe("item.created", func(any) { order = append(order, 1) })
	bus.Subscribe("item.created", func(any) { order = append(order, 2) })
	bus.Subscribe("item.created", func(any) { order = append(order, 3) })

	bus.Publish("item.created", nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	bus := New(zerolog.Nop())

	first, third := 0, 0
	bus.Subscribe("collection.deleted", func(any) { first++ })
	bus.Subscribe("collection.deleted", func(any) { panic("bad handler") })
	bus.Subscribe("collection.deleted", func(any) { third++ })

	assert.NotPanics(t, func() {
		bus.Publish("collection.deleted", "id-123")
	})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, third)
}

func TestPayloadDelivered(t *testing.T) {
	bus := New(zerolog.Nop())

	var got any
	bus.Subscribe("message.sent", func(payload any) { got = payload })

	bus.Publish("message.sent", map[string]string{"id": "m1"})

	assert.Equal(t, map[string]string{"id": "m1"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New(zerolog.Nop())

	calls := 0
	unsubscribe := bus.Subscribe("user.updated", func(any) { calls++ })

	bus.Publish("user.updated", nil)
	unsubscribe()
	bus.Publish("user.updated", nil)
	unsubscribe() // second call is a no-op

	assert.Equal(t, 1, calls)
}

func TestEventsAreIndependent(t *testing.T) {
	bus := New(zerolog.Nop())

	created, deleted := 0, 0
	bus.Subscribe("item.created", func(any) { created++ })
	bus.Subscribe("item.deleted", func(any) { deleted++ })

	bus.Publish("item.created", nil)
	bus.Publish("item.created", nil)

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, deleted)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	bus := New(zerolog.Nop())
	assert.NotPanics(t, func() { bus.Publish("wishlist.match_found", nil) })
}
