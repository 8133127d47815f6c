package inbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/market"
)

// MarketService defines the interface for marketplace operations
type MarketService interface {
	// ListForSale retrieves the items currently listed for sale
	ListForSale(ctx context.Context) ([]*item.Item, error)

	// CreateTransaction records a purchase of a listed item
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*market.Transaction, error)

	// ListTransactions retrieves the caller's transactions
	ListTransactions(ctx context.Context, callerID uuid.UUID) ([]*market.Transaction, error)

	// LeaveFeedback records a 1-5 rating against a transaction counterpart
	LeaveFeedback(ctx context.Context, req LeaveFeedbackRequest) (*market.Feedback, error)

	// ListFeedbackForUser retrieves the feedback left about a user
	ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*market.Feedback, error)

	// ListAdvertisements retrieves currently active ads
	ListAdvertisements(ctx context.Context) ([]*market.Advertisement, error)
}

// request to record a transaction
type CreateTransactionRequest struct {
	BuyerID uuid.UUID `json:"-"`
	ItemID  uuid.UUID `json:"item_id"`
}

// request to leave feedback
type LeaveFeedbackRequest struct {
	RaterID       uuid.UUID `json:"-"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
}
