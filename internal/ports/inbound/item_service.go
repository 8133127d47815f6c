package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/item"
)

// ItemService defines the interface for item operations
type ItemService interface {
	// CreateItem creates an item in a collection the caller owns
	CreateItem(ctx context.Context, req CreateItemRequest) (*item.Item, error)

	// GetItem retrieves an item
	GetItem(ctx context.Context, callerID, itemID uuid.UUID) (*item.Item, error)

	// ListItems retrieves the items of a collection
	ListItems(ctx context.Context, callerID, collectionID uuid.UUID) ([]*item.Item, error)

	// UpdateItem updates an item the caller owns
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*item.Item, error)

	// DeleteItem deletes an item the caller owns
	DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error

	// ToggleForSale lists or delists an item on the marketplace
	ToggleForSale(ctx context.Context, req ToggleForSaleRequest) (*item.Item, error)

	// AttachProofOfPurchase appends stored proof references to an item
	AttachProofOfPurchase(ctx context.Context, callerID, itemID uuid.UUID, urls []string) (*item.Item, error)
}

// request to create an item
type CreateItemRequest struct {
	CallerID      uuid.UUID      `json:"-"`
	CollectionID  uuid.UUID      `json:"collection_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	PurchasePrice float64        `json:"purchase_price"`
	CurrentValue  float64        `json:"current_value"`
	Currency      string         `json:"currency"`
	PurchaseDate  *time.Time     `json:"purchase_date,omitempty"`
	PurchasePlace string         `json:"purchase_place"`
	Condition     string         `json:"condition"`
	Attributes    map[string]any `json:"attributes"`
	Images        []string       `json:"images"`
}

// request to update an item
type UpdateItemRequest struct {
	CallerID      uuid.UUID      `json:"-"`
	ItemID        uuid.UUID      `json:"-"`
	Name          *string        `json:"name,omitempty"`
	Description   *string        `json:"description,omitempty"`
	PurchasePrice *float64       `json:"purchase_price,omitempty"`
	CurrentValue  *float64       `json:"current_value,omitempty"`
	Currency      *string        `json:"currency,omitempty"`
	PurchaseDate  *time.Time     `json:"purchase_date,omitempty"`
	PurchasePlace *string        `json:"purchase_place,omitempty"`
	Condition     *string        `json:"condition,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Images        []string       `json:"images,omitempty"`
}

// request to toggle the marketplace listing of an item
type ToggleForSaleRequest struct {
	CallerID    uuid.UUID `json:"-"`
	ItemID      uuid.UUID `json:"-"`
	ForSale     bool      `json:"for_sale"`
	AskingPrice *float64  `json:"asking_price,omitempty"`
}
