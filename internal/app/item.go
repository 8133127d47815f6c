package app

import (
	"context"
	"time"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ItemService implements the item use cases
type ItemService struct {
	itemRepo       outbound.ItemRepository
	collectionRepo outbound.CollectionRepository
	typeRepo       outbound.CollectionTypeRepository
	validator      *validation.Validator
	bus            outbound.EventBus
	logger         zerolog.Logger
}

type ItemServiceParams struct {
	ItemRepo       outbound.ItemRepository
	CollectionRepo outbound.CollectionRepository
	TypeRepo       outbound.CollectionTypeRepository
	Validator      *validation.Validator
	Bus            outbound.EventBus
	Logger         zerolog.Logger
}

// NewItemService creates a new item service
func NewItemService(params ItemServiceParams) *ItemService {
	return &ItemService{
		itemRepo:       params.ItemRepo,
		collectionRepo: params.CollectionRepo,
		typeRepo:       params.TypeRepo,
		validator:      params.Validator,
		bus:            params.Bus,
		logger:         params.Logger.With().Str("component", "item_service").Logger(),
	}
}

// ownedCollection loads a collection and gates it on ownership.
func (service *ItemService) ownedCollection(ctx context.Context, callerID, collectionID uuid.UUID) (*collection.Collection, error) {
	coll, err := service.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !coll.OwnedBy(callerID) {
		service.logger.Warn().
			Str("collection_id", collectionID.String()).
			Str("caller_id", callerID.String()).
			Msg("Collection access denied")
		return nil, shared.ErrForbidden
	}
	return coll, nil
}

// CreateItem creates an item in a collection the caller owns
func (service *ItemService) CreateItem(ctx context.Context, req inbound.CreateItemRequest) (*item.Item, error) {
	service.logger.Info().
		Str("collection_id", req.CollectionID.String()).
		Str("caller_id", req.CallerID.String()).
		Str("name", req.Name).
		Msg("Attempting to create item")

	coll, err := service.ownedCollection(ctx, req.CallerID, req.CollectionID)
	if err != nil {
		return nil, err
	}

	typ, err := service.typeRepo.GetByID(ctx, coll.TypeID)
	if err != nil {
		service.logger.Error().Err(err).Str("type_id", coll.TypeID.String()).Msg("Collection type lookup failed")
		return nil, err
	}

	now := time.Now()
	it := &item.Item{
		ID:            uuid.New(),
		CollectionID:  coll.ID,
		OwnerID:       req.CallerID,
		Name:          req.Name,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		CurrentValue:  req.CurrentValue,
		Currency:      req.Currency,
		PurchaseDate:  req.PurchaseDate,
		PurchasePlace: req.PurchasePlace,
		Condition:     req.Condition,
		Attributes:    req.Attributes,
		Images:        req.Images,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if it.Attributes == nil {
		it.Attributes = map[string]any{}
	}

	vctx := validation.Context{Action: "create_item", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.Item(it, typ, vctx); err != nil {
		return nil, err
	}

	if err := service.itemRepo.Create(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Msg("Failed to save item")
		return nil, err
	}

	out := validation.Context{Action: "create_item", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.Item(it, typ, out); err != nil {
		return nil, err
	}

	service.logger.Info().
		Str("item_id", it.ID.String()).
		Str("collection_id", coll.ID.String()).
		Msg("Item created")
	service.bus.Publish(eventbus.ItemCreated, it)

	return it, nil
}

// GetItem retrieves an item. Items in private collections are only visible
// to their owner.
func (service *ItemService) GetItem(ctx context.Context, callerID, itemID uuid.UUID) (*item.Item, error) {
	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !it.OwnedBy(callerID) {
		coll, err := service.collectionRepo.GetByID(ctx, it.CollectionID)
		if err != nil {
			return nil, err
		}
		if coll.Private {
			return nil, shared.ErrForbidden
		}
	}

	return it, nil
}

// ListItems retrieves the items of a collection, enforcing the privacy flag
func (service *ItemService) ListItems(ctx context.Context, callerID, collectionID uuid.UUID) ([]*item.Item, error) {
	coll, err := service.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if coll.Private && !coll.OwnedBy(callerID) {
		return nil, shared.ErrForbidden
	}

	return service.itemRepo.ListByCollection(ctx, collectionID)
}

// UpdateItem updates an item the caller owns
func (service *ItemService) UpdateItem(ctx context.Context, req inbound.UpdateItemRequest) (*item.Item, error) {
	it, err := service.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !it.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("item_id", req.ItemID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Item update denied")
		return nil, shared.ErrForbidden
	}

	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.PurchasePrice != nil {
		it.PurchasePrice = *req.PurchasePrice
	}
	if req.CurrentValue != nil {
		it.CurrentValue = *req.CurrentValue
	}
	if req.Currency != nil {
		it.Currency = *req.Currency
	}
	if req.PurchaseDate != nil {
		it.PurchaseDate = req.PurchaseDate
	}
	if req.PurchasePlace != nil {
		it.PurchasePlace = *req.PurchasePlace
	}
	if req.Condition != nil {
		it.Condition = *req.Condition
	}
	if req.Attributes != nil {
		it.Attributes = req.Attributes
	}
	if req.Images != nil {
		it.Images = req.Images
	}
	it.UpdatedAt = time.Now()

	coll, err := service.collectionRepo.GetByID(ctx, it.CollectionID)
	if err != nil {
		return nil, err
	}
	typ, err := service.typeRepo.GetByID(ctx, coll.TypeID)
	if err != nil {
		return nil, err
	}

	vctx := validation.Context{Action: "update_item", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.Item(it, typ, vctx); err != nil {
		return nil, err
	}

	if err := service.itemRepo.Update(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Msg("Failed to update item")
		return nil, err
	}

	out := validation.Context{Action: "update_item", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.Item(it, typ, out); err != nil {
		return nil, err
	}

	service.logger.Info().Str("item_id", it.ID.String()).Msg("Item updated")
	service.bus.Publish(eventbus.ItemUpdated, it)

	return it, nil
}

// DeleteItem deletes an item the caller owns
func (service *ItemService) DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error {
	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	if !it.OwnedBy(callerID) {
		service.logger.Warn().
			Str("item_id", itemID.String()).
			Str("caller_id", callerID.String()).
			Msg("Item delete denied")
		return shared.ErrForbidden
	}

	if err := service.itemRepo.Delete(ctx, itemID); err != nil {
		service.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to delete item")
		return err
	}

	service.logger.Info().Str("item_id", itemID.String()).Msg("Item deleted")
	service.bus.Publish(eventbus.ItemDeleted, itemID)

	return nil
}

// ToggleForSale lists or delists an item on the marketplace. Listing
// requires a positive asking price; delisting clears it.
func (service *ItemService) ToggleForSale(ctx context.Context, req inbound.ToggleForSaleRequest) (*item.Item, error) {
	it, err := service.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !it.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("item_id", req.ItemID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Sale toggle denied")
		return nil, shared.ErrForbidden
	}

	if req.ForSale {
		if req.AskingPrice == nil {
			return nil, shared.ErrAskingPriceRequired
		}
		if *req.AskingPrice <= 0 {
			return nil, shared.ErrAskingPriceInvalid
		}
		it.ForSale = true
		it.AskingPrice = req.AskingPrice
	} else {
		it.ForSale = false
		it.AskingPrice = nil
	}
	it.UpdatedAt = time.Now()

	if err := service.itemRepo.Update(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Msg("Failed to toggle sale state")
		return nil, err
	}

	service.logger.Info().
		Str("item_id", it.ID.String()).
		Bool("for_sale", it.ForSale).
		Msg("Item sale state toggled")
	service.bus.Publish(eventbus.ItemSaleToggled, it)

	return it, nil
}

// AttachProofOfPurchase appends stored proof references to an item
func (service *ItemService) AttachProofOfPurchase(ctx context.Context, callerID, itemID uuid.UUID, urls []string) (*item.Item, error) {
	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !it.OwnedBy(callerID) {
		return nil, shared.ErrForbidden
	}

	it.ProofOfPurchase = append(it.ProofOfPurchase, urls...)
	it.UpdatedAt = time.Now()

	if err := service.itemRepo.Update(ctx, it); err != nil {
		service.logger.Error().Err(err).Str("item_id", it.ID.String()).Msg("Failed to attach proof of purchase")
		return nil, err
	}

	service.logger.Info().
		Str("item_id", it.ID.String()).
		Int("attached", len(urls)).
		Msg("Proof of purchase attached")

	return it, nil
}
