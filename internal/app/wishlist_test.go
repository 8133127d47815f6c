package app

import (
	"context"
	"testing"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wishlistFixture struct {
	store    *fakeStore
	service  *WishlistService
	notifier *fakeNotifier
	ownerID  uuid.UUID
	typ      *collection.Type
}

func newWishlistFixture(t *testing.T) *wishlistFixture {
	t.Helper()
	store := newFakeStore()
	ownerID := uuid.New()
	store.users[ownerID] = &shared.User{ID: ownerID, Email: "owner@example.com"}

	typ := &collection.Type{ID: uuid.New(), Name: "Vinyl Records", Slug: "vinyl-records"}
	store.types[typ.ID] = typ

	notifier := &fakeNotifier{}
	service := NewWishlistService(WishlistServiceParams{
		WishlistRepo: &fakeWishlistRepo{store: store},
		TypeRepo:     &fakeTypeRepo{store: store},
		ItemRepo:     &fakeItemRepo{store: store},
		Notifier:     notifier,
		Validator:    validation.New(zerolog.Nop()),
		Bus:          eventbus.New(zerolog.Nop()),
		Logger:       zerolog.Nop(),
	})
	return &wishlistFixture{store: store, service: service, notifier: notifier, ownerID: ownerID, typ: typ}
}

func TestCreateWishlistItemResolvesTypeSlug(t *testing.T) {
	f := newWishlistFixture(t)

	created, err := f.service.CreateWishlistItem(context.Background(), inbound.CreateWishlistItemRequest{
		OwnerID:  f.ownerID,
		TypeSlug: "vinyl-records",
		Name:     "Abbey Road, first pressing",
	})
	require.NoError(t, err)
	assert.Equal(t, f.typ.ID, created.TypeID)
}

func TestCreateWishlistItemUnknownSlug(t *testing.T) {
	f := newWishlistFixture(t)

	_, err := f.service.CreateWishlistItem(context.Background(), inbound.CreateWishlistItemRequest{
		OwnerID:  f.ownerID,
		TypeSlug: "no-such-type",
		Name:     "Abbey Road",
	})
	require.ErrorIs(t, err, shared.ErrCollectionTypeNotFound)
}

func TestRecordMatchNotifiesOwnerOnce(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	wish, err := f.service.CreateWishlistItem(ctx, inbound.CreateWishlistItemRequest{
		OwnerID:  f.ownerID,
		TypeSlug: "vinyl-records",
		Name:     "Abbey Road, first pressing",
	})
	require.NoError(t, err)

	price := 250.0
	it := &item.Item{ID: uuid.New(), CollectionID: uuid.New(), OwnerID: uuid.New(),
		Name: "Abbey Road", ForSale: true, AskingPrice: &price}
	f.store.items[it.ID] = it

	match, err := f.service.RecordMatch(ctx, wish.ID, it.ID)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.True(t, match.Notified)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, f.ownerID, f.notifier.requests[0].UserID)
	assert.Equal(t, notification.TypeWishlistMatch, f.notifier.requests[0].Type)

	// Replaying the same pair records nothing and stays silent.
	dup, err := f.service.RecordMatch(ctx, wish.ID, it.ID)
	require.NoError(t, err)
	assert.Nil(t, dup)
	assert.Equal(t, 1, f.notifier.count())
	assert.Len(t, f.store.matches, 1)
}

func TestUpdateWishlistItemOwnershipGate(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	wish, err := f.service.CreateWishlistItem(ctx, inbound.CreateWishlistItemRequest{
		OwnerID:  f.ownerID,
		TypeSlug: "vinyl-records",
		Name:     "Abbey Road",
	})
	require.NoError(t, err)

	name := "Let It Be"
	_, err = f.service.UpdateWishlistItem(ctx, inbound.UpdateWishlistItemRequest{
		CallerID:       uuid.New(),
		WishlistItemID: wish.ID,
		Name:           &name,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)

	require.ErrorIs(t, f.service.DeleteWishlistItem(ctx, uuid.New(), wish.ID), shared.ErrForbidden)
}
