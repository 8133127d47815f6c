package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/wishlist"
)

func newValidator() *Validator {
	return New(zerolog.Nop())
}

func validItem() *item.Item {
	return &item.Item{
		ID:           uuid.New(),
		CollectionID: uuid.New(),
		OwnerID:      uuid.New(),
		Name:         "Amazing Fantasy #15",
		CurrentValue: 1200,
	}
}

func TestItemDefaults(t *testing.T) {
	v := newValidator()
	i := validItem()

	err := v.Item(i, nil, Context{Action: "create_item", Direction: Incoming})
	require.NoError(t, err)

	assert.Equal(t, "USD", i.Currency)
	assert.NotNil(t, i.Images)
	assert.NotNil(t, i.ProofOfPurchase)
	assert.False(t, i.ForSale)
}

func TestItemForSaleRequiresAskingPrice(t *testing.T) {
	v := newValidator()
	i := validItem()
	i.ForSale = true

	err := v.Item(i, nil, Context{Action: "toggle_for_sale"})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "asking_price", verr.Fields[0].Field)
}

func TestItemRequiredTypeAttributes(t *testing.T) {
	v := newValidator()
	typ := &collection.Type{
		Name:               "Comics",
		Slug:               "comics",
		RequiredAttributes: []string{"publisher", "issue_number"},
		OptionalAttributes: []string{"grade"},
	}

	i := validItem()
	i.Attributes = map[string]any{"publisher": "Marvel"}

	err := v.Item(i, typ, Context{Action: "create_item"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "attributes.issue_number", verr.Fields[0].Field)

	i.Attributes["issue_number"] = 15
	assert.NoError(t, v.Item(i, typ, Context{Action: "create_item"}))
}

func TestItemCollectsAllOffendingFields(t *testing.T) {
	v := newValidator()
	i := &item.Item{PurchasePrice: -1}

	err := v.Item(i, nil, Context{Action: "create_item"})
	var verr *Error
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "owner_id")
	assert.Contains(t, fields, "collection_id")
	assert.Contains(t, fields, "purchase_price")
}

func TestCollectionValidation(t *testing.T) {
	v := newValidator()

	c := &collection.Collection{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		TypeID:  uuid.New(),
		Name:    "Silver Age",
	}
	assert.NoError(t, v.Collection(c, Context{Action: "create_collection"}))

	c.Name = ""
	c.ItemCount = -2
	err := v.Collection(c, Context{Action: "update_collection"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestCollectionTypeSlugMustBeURLSafe(t *testing.T) {
	v := newValidator()

	typ := &collection.Type{Name: "Trading Cards", Slug: "trading cards"}
	err := v.CollectionType(typ, Context{Action: "create_type"})
	require.Error(t, err)

	typ.Slug = "trading-cards"
	assert.NoError(t, v.CollectionType(typ, Context{Action: "create_type"}))
}

func TestWishlistItemValidation(t *testing.T) {
	v := newValidator()

	maxPrice := 0.0
	w := &wishlist.Item{
		OwnerID:  uuid.New(),
		TypeID:   uuid.New(),
		Name:     "CGC 9.8 Hulk #181",
		MaxPrice: &maxPrice,
	}
	err := v.WishlistItem(w, Context{Action: "create_wishlist_item"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "max_price", verr.Fields[0].Field)
}

func TestMessageValidation(t *testing.T) {
	v := newValidator()
	self := uuid.New()

	m := &message.Message{SenderID: self, RecipientID: self, Content: "   "}
	err := v.Message(m, Context{Action: "send_message"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
