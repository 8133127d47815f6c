package matcher

import (
	"testing"

	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/wishlist"
	"click-collectible-service/internal/eventbus"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func listedItem(price float64) *item.Item {
	return &item.Item{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Name:        "Abbey Road",
		ForSale:     true,
		AskingPrice: &price,
		Attributes: map[string]any{
			"artist":   "The Beatles",
			"pressing": "first",
			"year":     1969,
		},
	}
}

func wishFor(maxPrice *float64, attrs map[string]any) *wishlist.Item {
	return &wishlist.Item{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		TypeID:     uuid.New(),
		Name:       "Abbey Road, first pressing",
		MaxPrice:   maxPrice,
		Attributes: attrs,
	}
}

func TestSatisfies(t *testing.T) {
	cap := 300.0
	wish := wishFor(&cap, map[string]any{"artist": "the beatles", "pressing": "first"})

	assert.True(t, Satisfies(wish, listedItem(250)))
}

func TestSatisfiesPriceCap(t *testing.T) {
	cap := 200.0
	wish := wishFor(&cap, nil)

	assert.False(t, Satisfies(wish, listedItem(250)))
	assert.True(t, Satisfies(wish, listedItem(200)))

	// No cap accepts any asking price.
	assert.True(t, Satisfies(wishFor(nil, nil), listedItem(9999)))
}

func TestSatisfiesAttributeConstraints(t *testing.T) {
	it := listedItem(100)

	assert.False(t, Satisfies(wishFor(nil, map[string]any{"pressing": "second"}), it))
	assert.False(t, Satisfies(wishFor(nil, map[string]any{"label": "Apple"}), it))

	// Non-string values compare by rendered form.
	assert.True(t, Satisfies(wishFor(nil, map[string]any{"year": 1969}), it))
	assert.False(t, Satisfies(wishFor(nil, map[string]any{"year": 1970}), it))
}

func TestSatisfiesSkipsUnlisted(t *testing.T) {
	wish := wishFor(nil, nil)

	it := listedItem(100)
	it.ForSale = false
	assert.False(t, Satisfies(wish, it))

	it = listedItem(100)
	it.AskingPrice = nil
	assert.False(t, Satisfies(wish, it))
}

func TestSatisfiesIgnoresOwnListings(t *testing.T) {
	wish := wishFor(nil, nil)
	it := listedItem(100)
	it.OwnerID = wish.OwnerID

	assert.False(t, Satisfies(wish, it))
}

func TestListingEventNudgesLoop(t *testing.T) {
	bus := eventbus.New(zerolog.Nop())
	m := NewMatcher(MatcherParams{Bus: bus, Logger: zerolog.Nop()})
	defer m.Stop()

	bus.Publish(eventbus.ItemSaleToggled, nil)

	select {
	case <-m.kick:
	default:
		t.Fatal("expected a listing event to queue a matcher run")
	}

	// Repeated events while a run is already queued must not block the bus.
	bus.Publish(eventbus.ItemSaleToggled, nil)
	bus.Publish(eventbus.ItemSaleToggled, nil)
}
