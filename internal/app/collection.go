package app

import (
	"context"
	"errors"
	"time"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CollectionService implements the collection use cases
type CollectionService struct {
	collectionRepo outbound.CollectionRepository
	typeRepo       outbound.CollectionTypeRepository
	validator      *validation.Validator
	bus            outbound.EventBus
	logger         zerolog.Logger
}

type CollectionServiceParams struct {
	CollectionRepo outbound.CollectionRepository
	TypeRepo       outbound.CollectionTypeRepository
	Validator      *validation.Validator
	Bus            outbound.EventBus
	Logger         zerolog.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(params CollectionServiceParams) *CollectionService {
	return &CollectionService{
		collectionRepo: params.CollectionRepo,
		typeRepo:       params.TypeRepo,
		validator:      params.Validator,
		bus:            params.Bus,
		logger:         params.Logger.With().Str("component", "collection_service").Logger(),
	}
}

// CreateCollection creates a new collection for the caller
func (service *CollectionService) CreateCollection(ctx context.Context, req inbound.CreateCollectionRequest) (*collection.Collection, error) {
	service.logger.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("type_slug", req.TypeSlug).
		Str("name", req.Name).
		Msg("Attempting to create collection")

	typ, err := service.typeRepo.GetBySlug(ctx, req.TypeSlug)
	if err != nil {
		service.logger.Warn().Err(err).Str("type_slug", req.TypeSlug).Msg("Collection type not found")
		return nil, shared.ErrCollectionTypeNotFound
	}

	now := time.Now()
	coll := &collection.Collection{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		TypeID:      typ.ID,
		TypeName:    typ.Name,
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		CoverImage:  req.CoverImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	vctx := validation.Context{Action: "create_collection", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.Collection(coll, vctx); err != nil {
		return nil, err
	}

	if err := service.collectionRepo.Create(ctx, coll); err != nil {
		service.logger.Error().Err(err).Str("collection_id", coll.ID.String()).Msg("Failed to save collection")
		return nil, err
	}

	out := validation.Context{Action: "create_collection", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.Collection(coll, out); err != nil {
		return nil, err
	}

	service.logger.Info().Str("collection_id", coll.ID.String()).Msg("Collection created")
	service.bus.Publish(eventbus.CollectionCreated, coll)

	return coll, nil
}

// GetCollection retrieves a collection. Private collections are only visible
// to their owner.
func (service *CollectionService) GetCollection(ctx context.Context, callerID, collectionID uuid.UUID) (*collection.Collection, error) {
	coll, err := service.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if coll.Private && !coll.OwnedBy(callerID) {
		service.logger.Warn().
			Str("collection_id", collectionID.String()).
			Str("caller_id", callerID.String()).
			Msg("Private collection access denied")
		return nil, shared.ErrForbidden
	}

	return coll, nil
}

// ListCollections retrieves the caller's collections
func (service *CollectionService) ListCollections(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error) {
	return service.collectionRepo.ListByOwner(ctx, ownerID)
}

// UpdateCollection updates a collection the caller owns
func (service *CollectionService) UpdateCollection(ctx context.Context, req inbound.UpdateCollectionRequest) (*collection.Collection, error) {
	coll, err := service.collectionRepo.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	if !coll.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("collection_id", req.CollectionID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Collection update denied")
		return nil, shared.ErrForbidden
	}

	if req.Name != nil {
		coll.Name = *req.Name
	}
	if req.Description != nil {
		coll.Description = *req.Description
	}
	if req.Private != nil {
		coll.Private = *req.Private
	}
	if req.CoverImage != nil {
		coll.CoverImage = *req.CoverImage
	}
	coll.UpdatedAt = time.Now()

	vctx := validation.Context{Action: "update_collection", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.Collection(coll, vctx); err != nil {
		return nil, err
	}

	if err := service.collectionRepo.Update(ctx, coll); err != nil {
		service.logger.Error().Err(err).Str("collection_id", coll.ID.String()).Msg("Failed to update collection")
		return nil, err
	}

	out := validation.Context{Action: "update_collection", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.Collection(coll, out); err != nil {
		return nil, err
	}

	service.logger.Info().Str("collection_id", coll.ID.String()).Msg("Collection updated")
	service.bus.Publish(eventbus.CollectionUpdated, coll)

	return coll, nil
}

// DeleteCollection deletes a collection the caller owns. Items are removed
// by cascade.
func (service *CollectionService) DeleteCollection(ctx context.Context, callerID, collectionID uuid.UUID) error {
	coll, err := service.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}

	if !coll.OwnedBy(callerID) {
		service.logger.Warn().
			Str("collection_id", collectionID.String()).
			Str("caller_id", callerID.String()).
			Msg("Collection delete denied")
		return shared.ErrForbidden
	}

	if err := service.collectionRepo.Delete(ctx, collectionID); err != nil {
		service.logger.Error().Err(err).Str("collection_id", collectionID.String()).Msg("Failed to delete collection")
		return err
	}

	service.logger.Info().Str("collection_id", collectionID.String()).Msg("Collection deleted")
	service.bus.Publish(eventbus.CollectionDeleted, collectionID)

	return nil
}

// ListTypes retrieves the registered collection types
func (service *CollectionService) ListTypes(ctx context.Context) ([]*collection.Type, error) {
	return service.typeRepo.List(ctx)
}

// CreateType registers a new collection type. Only admins may extend the
// type catalog; slugs are unique.
func (service *CollectionService) CreateType(ctx context.Context, req inbound.CreateTypeRequest) (*collection.Type, error) {
	if req.CallerRole != shared.RoleAdmin {
		service.logger.Warn().Str("slug", req.Slug).Msg("Collection type create denied")
		return nil, shared.ErrForbidden
	}

	typ := &collection.Type{
		ID:                 uuid.New(),
		Name:               req.Name,
		Slug:               req.Slug,
		RequiredAttributes: req.RequiredAttributes,
		OptionalAttributes: req.OptionalAttributes,
		CreatedAt:          time.Now(),
	}
	if typ.RequiredAttributes == nil {
		typ.RequiredAttributes = []string{}
	}
	if typ.OptionalAttributes == nil {
		typ.OptionalAttributes = []string{}
	}

	vctx := validation.Context{Action: "create_collection_type", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.CollectionType(typ, vctx); err != nil {
		return nil, err
	}

	if _, err := service.typeRepo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, shared.ErrTypeSlugTaken
	} else if !errors.Is(err, shared.ErrCollectionTypeNotFound) {
		return nil, err
	}

	if err := service.typeRepo.Create(ctx, typ); err != nil {
		service.logger.Error().Err(err).Str("slug", typ.Slug).Msg("Failed to create collection type")
		return nil, err
	}

	service.logger.Info().Str("slug", typ.Slug).Str("type_id", typ.ID.String()).Msg("Collection type created")
	return typ, nil
}
