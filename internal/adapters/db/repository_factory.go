package db

import (
	"click-collectible-service/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetUserRepository returns the user repository
func (f *RepositoryFactory) GetUserRepository() outbound.UserRepository {
	return NewUserRepository(f.conn)
}

// GetCollectionTypeRepository returns the collection type repository
func (f *RepositoryFactory) GetCollectionTypeRepository() outbound.CollectionTypeRepository {
	return NewCollectionTypeRepository(f.conn)
}

// GetCollectionRepository returns the collection repository
func (f *RepositoryFactory) GetCollectionRepository() outbound.CollectionRepository {
	return NewCollectionRepository(f.conn)
}

// GetItemRepository returns the item repository
func (f *RepositoryFactory) GetItemRepository() outbound.ItemRepository {
	return NewItemRepository(f.conn)
}

// GetWishlistRepository returns the wishlist repository
func (f *RepositoryFactory) GetWishlistRepository() outbound.WishlistRepository {
	return NewWishlistRepository(f.conn)
}

// GetMessageRepository returns the message repository
func (f *RepositoryFactory) GetMessageRepository() outbound.MessageRepository {
	return NewMessageRepository(f.conn)
}

// GetNotificationRepository returns the notification repository
func (f *RepositoryFactory) GetNotificationRepository() outbound.NotificationRepository {
	return NewNotificationRepository(f.conn)
}

// GetMarketRepository returns the market repository
func (f *RepositoryFactory) GetMarketRepository() outbound.MarketRepository {
	return NewMarketRepository(f.conn)
}
