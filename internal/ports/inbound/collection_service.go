package inbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/collection"
)

// CollectionService defines the interface for collection operations
type CollectionService interface {
	// CreateCollection creates a new collection for the caller
	CreateCollection(ctx context.Context, req CreateCollectionRequest) (*collection.Collection, error)

	// GetCollection retrieves a collection, enforcing the privacy flag
	GetCollection(ctx context.Context, callerID, collectionID uuid.UUID) (*collection.Collection, error)

	// ListCollections retrieves the caller's collections
	ListCollections(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error)

	// UpdateCollection updates a collection the caller owns
	UpdateCollection(ctx context.Context, req UpdateCollectionRequest) (*collection.Collection, error)

	// DeleteCollection deletes a collection the caller owns
	DeleteCollection(ctx context.Context, callerID, collectionID uuid.UUID) error

	// ListTypes retrieves the registered collection types
	ListTypes(ctx context.Context) ([]*collection.Type, error)

	// CreateType registers a new collection type. Admin only.
	CreateType(ctx context.Context, req CreateTypeRequest) (*collection.Type, error)
}

// request to create a collection
type CreateCollectionRequest struct {
	OwnerID     uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TypeSlug    string    `json:"type_slug"`
	Private     bool      `json:"private"`
	CoverImage  string    `json:"cover_image"`
}

// request to register a collection type
type CreateTypeRequest struct {
	CallerRole         string   `json:"-"`
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	RequiredAttributes []string `json:"required_attributes"`
	OptionalAttributes []string `json:"optional_attributes"`
}

// request to update a collection
type UpdateCollectionRequest struct {
	CallerID     uuid.UUID `json:"-"`
	CollectionID uuid.UUID `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Private      *bool     `json:"private,omitempty"`
	CoverImage   *string   `json:"cover_image,omitempty"`
}
