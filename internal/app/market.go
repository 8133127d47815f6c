package app

import (
	"context"
	"fmt"
	"time"

	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/market"
	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MarketService implements the marketplace use cases
type MarketService struct {
	marketRepo outbound.MarketRepository
	itemRepo   outbound.ItemRepository
	userRepo   outbound.UserRepository
	notifier   inbound.NotificationService
	logger     zerolog.Logger
}

type MarketServiceParams struct {
	MarketRepo outbound.MarketRepository
	ItemRepo   outbound.ItemRepository
	UserRepo   outbound.UserRepository
	Notifier   inbound.NotificationService
	Logger     zerolog.Logger
}

// NewMarketService creates a new market service
func NewMarketService(params MarketServiceParams) *MarketService {
	return &MarketService{
		marketRepo: params.MarketRepo,
		itemRepo:   params.ItemRepo,
		userRepo:   params.UserRepo,
		notifier:   params.Notifier,
		logger:     params.Logger.With().Str("component", "market_service").Logger(),
	}
}

// ListForSale retrieves the items currently listed for sale
func (service *MarketService) ListForSale(ctx context.Context) ([]*item.Item, error) {
	return service.itemRepo.ListForSale(ctx)
}

// CreateTransaction records a purchase of a listed item. The item must be
// listed for sale and the buyer must not be its owner.
func (service *MarketService) CreateTransaction(ctx context.Context, req inbound.CreateTransactionRequest) (*market.Transaction, error) {
	it, err := service.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !it.ForSale || it.AskingPrice == nil {
		return nil, shared.ErrItemNotForSale
	}
	if it.OwnedBy(req.BuyerID) {
		return nil, shared.ErrInvalidRequest
	}

	now := time.Now()
	tx := &market.Transaction{
		ID:        uuid.New(),
		ItemID:    it.ID,
		BuyerID:   req.BuyerID,
		SellerID:  it.OwnerID,
		Amount:    *it.AskingPrice,
		Currency:  it.Currency,
		Status:    market.TransactionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.marketRepo.CreateTransaction(ctx, tx); err != nil {
		service.logger.Error().Err(err).Str("transaction_id", tx.ID.String()).Msg("Failed to save transaction")
		return nil, err
	}

	service.logger.Info().
		Str("transaction_id", tx.ID.String()).
		Str("item_id", it.ID.String()).
		Str("buyer_id", tx.BuyerID.String()).
		Str("seller_id", tx.SellerID.String()).
		Float64("amount", tx.Amount).
		Msg("Transaction recorded")

	if service.notifier != nil {
		content := fmt.Sprintf("Your item %q has a buyer", it.Name)
		_, err := service.notifier.Notify(ctx, inbound.NotifyRequest{
			UserID:    tx.SellerID,
			Type:      notification.TypeSale,
			Content:   content,
			RelatedID: &tx.ID,
		})
		if err != nil {
			service.logger.Error().Err(err).Str("transaction_id", tx.ID.String()).Msg("Failed to notify seller")
		}
	}

	return tx, nil
}

// ListTransactions retrieves the caller's transactions
func (service *MarketService) ListTransactions(ctx context.Context, callerID uuid.UUID) ([]*market.Transaction, error) {
	return service.marketRepo.ListTransactionsByUser(ctx, callerID)
}

// LeaveFeedback records a 1-5 rating against a transaction counterpart and
// folds it into the rated user's aggregate.
func (service *MarketService) LeaveFeedback(ctx context.Context, req inbound.LeaveFeedbackRequest) (*market.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, shared.ErrInvalidRating
	}

	tx, err := service.marketRepo.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	var ratedID uuid.UUID
	switch req.RaterID {
	case tx.BuyerID:
		ratedID = tx.SellerID
	case tx.SellerID:
		ratedID = tx.BuyerID
	default:
		service.logger.Warn().
			Str("transaction_id", req.TransactionID.String()).
			Str("rater_id", req.RaterID.String()).
			Msg("Feedback denied: rater is not a transaction party")
		return nil, shared.ErrForbidden
	}

	fb := &market.Feedback{
		ID:            uuid.New(),
		TransactionID: tx.ID,
		RaterID:       req.RaterID,
		RatedID:       ratedID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CreatedAt:     time.Now(),
	}

	if err := service.marketRepo.CreateFeedback(ctx, fb); err != nil {
		service.logger.Error().Err(err).Str("feedback_id", fb.ID.String()).Msg("Failed to save feedback")
		return nil, err
	}

	if err := service.userRepo.AddRating(ctx, ratedID, req.Rating); err != nil {
		service.logger.Error().Err(err).Str("user_id", ratedID.String()).Msg("Failed to fold rating into aggregate")
		return nil, err
	}

	service.logger.Info().
		Str("feedback_id", fb.ID.String()).
		Str("rated_id", ratedID.String()).
		Int("rating", req.Rating).
		Msg("Feedback recorded")

	if service.notifier != nil {
		_, err := service.notifier.Notify(ctx, inbound.NotifyRequest{
			UserID:    ratedID,
			Type:      notification.TypeFeedback,
			Content:   "You received new feedback",
			RelatedID: &fb.ID,
		})
		if err != nil {
			service.logger.Error().Err(err).Str("feedback_id", fb.ID.String()).Msg("Failed to notify rated user")
		}
	}

	return fb, nil
}

// ListFeedbackForUser retrieves the feedback left about a user
func (service *MarketService) ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*market.Feedback, error) {
	return service.marketRepo.ListFeedbackForUser(ctx, userID)
}

// ListAdvertisements retrieves currently active ads
func (service *MarketService) ListAdvertisements(ctx context.Context) ([]*market.Advertisement, error) {
	return service.marketRepo.ListActiveAdvertisements(ctx)
}
