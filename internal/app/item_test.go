package app

import (
	"context"
	"testing"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemFixture struct {
	store   *fakeStore
	service *ItemService
	bus     *eventbus.Bus
	ownerID uuid.UUID
	coll    *collection.Collection
	typ     *collection.Type
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	store := newFakeStore()
	ownerID := uuid.New()
	store.users[ownerID] = &shared.User{ID: ownerID, Email: "owner@example.com"}

	typ := &collection.Type{ID: uuid.New(), Name: "Comic Books", Slug: "comic-books"}
	store.types[typ.ID] = typ

	coll := &collection.Collection{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		TypeID:   typ.ID,
		TypeName: typ.Name,
		Name:     "Silver Age",
	}
	store.collections[coll.ID] = coll

	bus := eventbus.New(zerolog.Nop())
	service := NewItemService(ItemServiceParams{
		ItemRepo:       &fakeItemRepo{store: store},
		CollectionRepo: &fakeCollectionRepo{store: store},
		TypeRepo:       &fakeTypeRepo{store: store},
		Validator:      validation.New(zerolog.Nop()),
		Bus:            bus,
		Logger:         zerolog.Nop(),
	})
	return &itemFixture{store: store, service: service, bus: bus, ownerID: ownerID, coll: coll, typ: typ}
}

func TestCreateItemRefreshesAggregates(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
		CurrentValue: 1200,
	})
	require.NoError(t, err)

	_, err = f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Fantastic Four #1",
		CurrentValue: 800,
	})
	require.NoError(t, err)

	coll := f.store.collections[f.coll.ID]
	assert.Equal(t, 2, coll.ItemCount)
	assert.InDelta(t, 2000.0, coll.TotalValue, 0.001)
}

func TestCreateItemRejectsForeignCollection(t *testing.T) {
	f := newItemFixture(t)

	_, err := f.service.CreateItem(context.Background(), inbound.CreateItemRequest{
		CallerID:     uuid.New(),
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, f.store.items)
}

func TestCreateItemDefaultsCurrency(t *testing.T) {
	f := newItemFixture(t)

	created, err := f.service.CreateItem(context.Background(), inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)
	assert.Equal(t, item.DefaultCurrency, created.Currency)
	assert.NotNil(t, created.Images)
}

func TestGetItemPrivacy(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)

	// Public collection: any caller may read.
	_, err = f.service.GetItem(ctx, uuid.New(), created.ID)
	require.NoError(t, err)

	f.store.collections[f.coll.ID].Private = true

	_, err = f.service.GetItem(ctx, uuid.New(), created.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = f.service.GetItem(ctx, f.ownerID, created.ID)
	require.NoError(t, err)
}

func TestToggleForSaleRequiresAskingPrice(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)

	_, err = f.service.ToggleForSale(ctx, inbound.ToggleForSaleRequest{
		CallerID: f.ownerID,
		ItemID:   created.ID,
		ForSale:  true,
	})
	require.ErrorIs(t, err, shared.ErrAskingPriceRequired)

	zero := 0.0
	_, err = f.service.ToggleForSale(ctx, inbound.ToggleForSaleRequest{
		CallerID:    f.ownerID,
		ItemID:      created.ID,
		ForSale:     true,
		AskingPrice: &zero,
	})
	require.ErrorIs(t, err, shared.ErrAskingPriceInvalid)

	price := 1500.0
	listed, err := f.service.ToggleForSale(ctx, inbound.ToggleForSaleRequest{
		CallerID:    f.ownerID,
		ItemID:      created.ID,
		ForSale:     true,
		AskingPrice: &price,
	})
	require.NoError(t, err)
	assert.True(t, listed.ForSale)
	require.NotNil(t, listed.AskingPrice)
	assert.Equal(t, price, *listed.AskingPrice)
}

func TestToggleForSaleDelistClearsAskingPrice(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)

	price := 1500.0
	_, err = f.service.ToggleForSale(ctx, inbound.ToggleForSaleRequest{
		CallerID:    f.ownerID,
		ItemID:      created.ID,
		ForSale:     true,
		AskingPrice: &price,
	})
	require.NoError(t, err)

	delisted, err := f.service.ToggleForSale(ctx, inbound.ToggleForSaleRequest{
		CallerID: f.ownerID,
		ItemID:   created.ID,
		ForSale:  false,
	})
	require.NoError(t, err)
	assert.False(t, delisted.ForSale)
	assert.Nil(t, delisted.AskingPrice)
}

func TestDeleteItemRefreshesAggregates(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
		CurrentValue: 1200,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteItem(ctx, f.ownerID, created.ID))

	coll := f.store.collections[f.coll.ID]
	assert.Equal(t, 0, coll.ItemCount)
	assert.Zero(t, coll.TotalValue)
}

func TestDeleteItemPublishesIdentifier(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)

	deleted := make(chan any, 1)
	unsubscribe := f.bus.Subscribe(eventbus.ItemDeleted, func(payload any) {
		deleted <- payload
	})
	defer unsubscribe()

	require.NoError(t, f.service.DeleteItem(ctx, f.ownerID, created.ID))

	select {
	case payload := <-deleted:
		id, ok := payload.(uuid.UUID)
		require.True(t, ok, "deletion event should carry the identifier, got %T", payload)
		assert.Equal(t, created.ID, id)
	default:
		t.Fatal("expected a deletion event")
	}
}

// corruptingItemRepo persists, then hands back a record the storage layer
// mangled.
type corruptingItemRepo struct {
	*fakeItemRepo
}

func (r *corruptingItemRepo) Create(ctx context.Context, it *item.Item) error {
	if err := r.fakeItemRepo.Create(ctx, it); err != nil {
		return err
	}
	it.Name = ""
	return nil
}

func TestCreateItemRejectsCorruptPersistedState(t *testing.T) {
	f := newItemFixture(t)
	f.service.itemRepo = &corruptingItemRepo{&fakeItemRepo{store: f.store}}

	published := make(chan any, 1)
	unsubscribe := f.bus.Subscribe(eventbus.ItemCreated, func(payload any) {
		published <- payload
	})
	defer unsubscribe()

	_, err := f.service.CreateItem(context.Background(), inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, published, "a record that fails the outgoing check must not be published")
}

func TestUpdateItemOwnershipGate(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateItem(ctx, inbound.CreateItemRequest{
		CallerID:     f.ownerID,
		CollectionID: f.coll.ID,
		Name:         "Amazing Fantasy #15",
	})
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.service.UpdateItem(ctx, inbound.UpdateItemRequest{
		CallerID: uuid.New(),
		ItemID:   created.ID,
		Name:     &name,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	assert.Equal(t, "Amazing Fantasy #15", f.store.items[created.ID].Name)
}
