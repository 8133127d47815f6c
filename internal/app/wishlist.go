package app

import (
	"context"
	"fmt"
	"time"

	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/domain/wishlist"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WishlistService implements the wishlist use cases
type WishlistService struct {
	wishlistRepo outbound.WishlistRepository
	typeRepo     outbound.CollectionTypeRepository
	itemRepo     outbound.ItemRepository
	notifier     inbound.NotificationService
	validator    *validation.Validator
	bus          outbound.EventBus
	logger       zerolog.Logger
}

type WishlistServiceParams struct {
	WishlistRepo outbound.WishlistRepository
	TypeRepo     outbound.CollectionTypeRepository
	ItemRepo     outbound.ItemRepository
	Notifier     inbound.NotificationService
	Validator    *validation.Validator
	Bus          outbound.EventBus
	Logger       zerolog.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(params WishlistServiceParams) *WishlistService {
	return &WishlistService{
		wishlistRepo: params.WishlistRepo,
		typeRepo:     params.TypeRepo,
		itemRepo:     params.ItemRepo,
		notifier:     params.Notifier,
		validator:    params.Validator,
		bus:          params.Bus,
		logger:       params.Logger.With().Str("component", "wishlist_service").Logger(),
	}
}

// CreateWishlistItem creates a desired-item specification
func (service *WishlistService) CreateWishlistItem(ctx context.Context, req inbound.CreateWishlistItemRequest) (*wishlist.Item, error) {
	typ, err := service.typeRepo.GetBySlug(ctx, req.TypeSlug)
	if err != nil {
		service.logger.Warn().Err(err).Str("type_slug", req.TypeSlug).Msg("Collection type not found")
		return nil, shared.ErrCollectionTypeNotFound
	}

	now := time.Now()
	w := &wishlist.Item{
		ID:         uuid.New(),
		OwnerID:    req.OwnerID,
		TypeID:     typ.ID,
		Name:       req.Name,
		Attributes: req.Attributes,
		MaxPrice:   req.MaxPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if w.Attributes == nil {
		w.Attributes = map[string]any{}
	}

	vctx := validation.Context{Action: "create_wishlist_item", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.WishlistItem(w, vctx); err != nil {
		return nil, err
	}

	if err := service.wishlistRepo.Create(ctx, w); err != nil {
		service.logger.Error().Err(err).Str("wishlist_item_id", w.ID.String()).Msg("Failed to save wishlist item")
		return nil, err
	}

	out := validation.Context{Action: "create_wishlist_item", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.WishlistItem(w, out); err != nil {
		return nil, err
	}

	service.logger.Info().
		Str("wishlist_item_id", w.ID.String()).
		Str("owner_id", w.OwnerID.String()).
		Msg("Wishlist item created")

	return w, nil
}

// ListWishlist retrieves the caller's wishlist
func (service *WishlistService) ListWishlist(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Item, error) {
	return service.wishlistRepo.ListByOwner(ctx, ownerID)
}

// UpdateWishlistItem updates a specification the caller owns
func (service *WishlistService) UpdateWishlistItem(ctx context.Context, req inbound.UpdateWishlistItemRequest) (*wishlist.Item, error) {
	w, err := service.wishlistRepo.GetByID(ctx, req.WishlistItemID)
	if err != nil {
		return nil, err
	}

	if !w.OwnedBy(req.CallerID) {
		service.logger.Warn().
			Str("wishlist_item_id", req.WishlistItemID.String()).
			Str("caller_id", req.CallerID.String()).
			Msg("Wishlist update denied")
		return nil, shared.ErrForbidden
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Attributes != nil {
		w.Attributes = req.Attributes
	}
	if req.MaxPrice != nil {
		w.MaxPrice = req.MaxPrice
	}
	w.UpdatedAt = time.Now()

	vctx := validation.Context{Action: "update_wishlist_item", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.WishlistItem(w, vctx); err != nil {
		return nil, err
	}

	if err := service.wishlistRepo.Update(ctx, w); err != nil {
		service.logger.Error().Err(err).Str("wishlist_item_id", w.ID.String()).Msg("Failed to update wishlist item")
		return nil, err
	}

	out := validation.Context{Action: "update_wishlist_item", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.WishlistItem(w, out); err != nil {
		return nil, err
	}

	return w, nil
}

// DeleteWishlistItem deletes a specification the caller owns
func (service *WishlistService) DeleteWishlistItem(ctx context.Context, callerID, wishlistItemID uuid.UUID) error {
	w, err := service.wishlistRepo.GetByID(ctx, wishlistItemID)
	if err != nil {
		return err
	}

	if !w.OwnedBy(callerID) {
		service.logger.Warn().
			Str("wishlist_item_id", wishlistItemID.String()).
			Str("caller_id", callerID.String()).
			Msg("Wishlist delete denied")
		return shared.ErrForbidden
	}

	return service.wishlistRepo.Delete(ctx, wishlistItemID)
}

// ListMatches retrieves the matches recorded against the caller's wishlist
func (service *WishlistService) ListMatches(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Match, error) {
	return service.wishlistRepo.ListMatchesByOwner(ctx, ownerID)
}

// RecordMatch records a match between a wishlist specification and a listed
// item, notifying the wishlist owner exactly once per pair. Re-recording an
// existing pair returns the stored state without a second notification.
func (service *WishlistService) RecordMatch(ctx context.Context, wishlistItemID, itemID uuid.UUID) (*wishlist.Match, error) {
	exists, err := service.wishlistRepo.MatchExists(ctx, wishlistItemID, itemID)
	if err != nil {
		return nil, err
	}
	if exists {
		service.logger.Debug().
			Str("wishlist_item_id", wishlistItemID.String()).
			Str("item_id", itemID.String()).
			Msg("Match already recorded")
		return nil, nil
	}

	w, err := service.wishlistRepo.GetByID(ctx, wishlistItemID)
	if err != nil {
		return nil, err
	}
	it, err := service.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	match := &wishlist.Match{
		ID:             uuid.New(),
		WishlistItemID: wishlistItemID,
		ItemID:         itemID,
		CreatedAt:      time.Now(),
	}

	if err := service.wishlistRepo.CreateMatch(ctx, match); err != nil {
		service.logger.Error().Err(err).Str("match_id", match.ID.String()).Msg("Failed to record match")
		return nil, err
	}

	service.logger.Info().
		Str("match_id", match.ID.String()).
		Str("wishlist_item_id", wishlistItemID.String()).
		Str("item_id", itemID.String()).
		Msg("Wishlist match recorded")

	if service.notifier != nil {
		content := fmt.Sprintf("A listed item matches your wishlist entry %q: %s", w.Name, it.Name)
		_, err := service.notifier.Notify(ctx, inbound.NotifyRequest{
			UserID:    w.OwnerID,
			Type:      notification.TypeWishlistMatch,
			Content:   content,
			RelatedID: &match.ID,
		})
		if err != nil {
			service.logger.Error().Err(err).Str("match_id", match.ID.String()).Msg("Failed to notify match owner")
		} else if err := service.wishlistRepo.MarkMatchNotified(ctx, match.ID); err != nil {
			service.logger.Error().Err(err).Str("match_id", match.ID.String()).Msg("Failed to mark match notified")
		} else {
			match.Notified = true
			now := time.Now()
			match.NotifiedAt = &now
		}
	}

	service.bus.Publish(eventbus.WishlistMatchFound, match)

	return match, nil
}
