package outbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/market"
	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/domain/wishlist"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user row
	Create(ctx context.Context, user *shared.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*shared.User, error)

	// Update updates a user's profile fields
	Update(ctx context.Context, user *shared.User) error

	// AddRating folds one rating into the user's aggregate
	AddRating(ctx context.Context, userID uuid.UUID, rating int) error
}

// CollectionTypeRepository defines the interface for the type registry
type CollectionTypeRepository interface {
	// Create registers a new collection type
	Create(ctx context.Context, typ *collection.Type) error

	// GetByID retrieves a type by ID
	GetByID(ctx context.Context, id uuid.UUID) (*collection.Type, error)

	// GetBySlug retrieves a type by its URL-safe slug
	GetBySlug(ctx context.Context, slug string) (*collection.Type, error)

	// List retrieves all registered types
	List(ctx context.Context) ([]*collection.Type, error)
}

// CollectionRepository defines the interface for collection data operations
type CollectionRepository interface {
	// Create creates a new collection
	Create(ctx context.Context, coll *collection.Collection) error

	// GetByID retrieves a collection by ID
	GetByID(ctx context.Context, id uuid.UUID) (*collection.Collection, error)

	// ListByOwner retrieves a user's collections
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error)

	// Update updates a collection's own fields (not its aggregates)
	Update(ctx context.Context, coll *collection.Collection) error

	// Delete deletes a collection and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository defines the interface for item data operations.
//
// Create, Update, Delete and BulkInsert run in one transaction with the
// owning collection's item_count/total_value recompute so the aggregate
// caches can never drift from the items relation.
type ItemRepository interface {
	// Create inserts an item and refreshes the collection aggregates
	Create(ctx context.Context, it *item.Item) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// ListByCollection retrieves the items of one collection
	ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]*item.Item, error)

	// ListForSaleByType retrieves for-sale items whose collection has the
	// given type
	ListForSaleByType(ctx context.Context, typeID uuid.UUID) ([]*item.Item, error)

	// ListForSale retrieves all for-sale items
	ListForSale(ctx context.Context) ([]*item.Item, error)

	// Update updates an item and refreshes the collection aggregates
	Update(ctx context.Context, it *item.Item) error

	// Delete deletes an item and refreshes the collection aggregates
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkInsert inserts a batch into one collection, increments the
	// collection's item count by the inserted count and refreshes the value
	// aggregate; returns the number inserted
	BulkInsert(ctx context.Context, collectionID uuid.UUID, items []*item.Item) (int, error)
}

// WishlistRepository defines the interface for wishlist data operations
type WishlistRepository interface {
	// Create creates a wishlist item
	Create(ctx context.Context, w *wishlist.Item) error

	// GetByID retrieves a wishlist item by ID
	GetByID(ctx context.Context, id uuid.UUID) (*wishlist.Item, error)

	// ListByOwner retrieves a user's wishlist
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Item, error)

	// ListAll retrieves every wishlist item (used by the matcher)
	ListAll(ctx context.Context) ([]*wishlist.Item, error)

	// Update updates a wishlist item
	Update(ctx context.Context, w *wishlist.Item) error

	// Delete deletes a wishlist item and its matches
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateMatch records a wishlist/item match
	CreateMatch(ctx context.Context, m *wishlist.Match) error

	// MatchExists reports whether a match is already recorded
	MatchExists(ctx context.Context, wishlistItemID, itemID uuid.UUID) (bool, error)

	// ListMatchesByOwner retrieves the matches for a user's wishlist
	ListMatchesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Match, error)

	// MarkMatchNotified sets the notified flag and timestamp
	MarkMatchNotified(ctx context.Context, matchID uuid.UUID) error
}

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	// Create persists a message
	Create(ctx context.Context, m *message.Message) error

	// GetByID retrieves a message by ID
	GetByID(ctx context.Context, id uuid.UUID) (*message.Message, error)

	// ListThread retrieves the messages between two users, oldest first
	ListThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]*message.Message, error)

	// ListConversations groups a user's messages by counterpart
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*message.Conversation, error)

	// MarkRead marks a message read
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	// Create persists a notification
	Create(ctx context.Context, n *notification.Notification) error

	// GetByID retrieves a notification by ID
	GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error)

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error)

	// MarkRead marks one notification read
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead marks all of a user's notifications read
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// MarketRepository defines the interface for marketplace support entities
type MarketRepository interface {
	// CreateTransaction persists a transaction
	CreateTransaction(ctx context.Context, t *market.Transaction) error

	// GetTransaction retrieves a transaction by ID
	GetTransaction(ctx context.Context, id uuid.UUID) (*market.Transaction, error)

	// ListTransactionsByUser retrieves transactions where the user is buyer
	// or seller
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID) ([]*market.Transaction, error)

	// UpdateTransactionStatus moves a transaction through its lifecycle
	UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status market.TransactionStatus) error

	// CreateFeedback persists feedback
	CreateFeedback(ctx context.Context, f *market.Feedback) error

	// ListFeedbackForUser retrieves feedback left about a user
	ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*market.Feedback, error)

	// ListActiveAdvertisements retrieves currently running ads
	ListActiveAdvertisements(ctx context.Context) ([]*market.Advertisement, error)
}
