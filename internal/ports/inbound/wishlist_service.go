package inbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/wishlist"
)

// WishlistService defines the interface for wishlist operations
type WishlistService interface {
	// CreateWishlistItem creates a desired-item specification
	CreateWishlistItem(ctx context.Context, req CreateWishlistItemRequest) (*wishlist.Item, error)

	// ListWishlist retrieves the caller's wishlist
	ListWishlist(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Item, error)

	// UpdateWishlistItem updates a specification the caller owns
	UpdateWishlistItem(ctx context.Context, req UpdateWishlistItemRequest) (*wishlist.Item, error)

	// DeleteWishlistItem deletes a specification the caller owns
	DeleteWishlistItem(ctx context.Context, callerID, wishlistItemID uuid.UUID) error

	// ListMatches retrieves the matches recorded against the caller's wishlist
	ListMatches(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Match, error)

	// RecordMatch records a match and notifies the owner once
	RecordMatch(ctx context.Context, wishlistItemID, itemID uuid.UUID) (*wishlist.Match, error)
}

// request to create a wishlist item
type CreateWishlistItemRequest struct {
	OwnerID    uuid.UUID      `json:"-"`
	TypeSlug   string         `json:"type_slug"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
	MaxPrice   *float64       `json:"max_price,omitempty"`
}

// request to update a wishlist item
type UpdateWishlistItemRequest struct {
	CallerID       uuid.UUID      `json:"-"`
	WishlistItemID uuid.UUID      `json:"-"`
	Name           *string        `json:"name,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
	MaxPrice       *float64       `json:"max_price,omitempty"`
}
