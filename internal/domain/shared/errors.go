package shared

import "errors"

// Domain-specific errors
var (
	// Authentication / authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrTokenMalformed  = errors.New("malformed bearer token")
	ErrTokenInvalid    = errors.New("invalid bearer token")
	ErrForbidden       = errors.New("caller does not own this resource")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Collection errors
	ErrCollectionNotFound     = errors.New("collection not found")
	ErrCollectionTypeNotFound = errors.New("collection type not found")
	ErrTypeSlugTaken          = errors.New("collection type slug already registered")

	// Item errors
	ErrItemNotFound         = errors.New("item not found")
	ErrAskingPriceRequired  = errors.New("asking price is required when listing for sale")
	ErrAskingPriceInvalid   = errors.New("asking price must be greater than 0")
	ErrMissingTypeAttribute = errors.New("missing required type attribute")

	// Wishlist errors
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrMatchNotFound        = errors.New("wishlist match not found")

	// Messaging errors
	ErrMessageNotFound      = errors.New("message not found")
	ErrRecipientRequired    = errors.New("recipient is required")
	ErrEmptyMessageContent  = errors.New("message content is required")
	ErrNotificationNotFound = errors.New("notification not found")

	// Marketplace errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrItemNotForSale      = errors.New("item is not listed for sale")

	// Report errors
	ErrUnknownReportType   = errors.New("unknown report type")
	ErrUnknownReportFormat = errors.New("unknown report format")

	// Request errors
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidIDFormat = errors.New("invalid id format")

	// Storage errors
	ErrObjectNotFound = errors.New("stored object not found")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")

	// Broadcasting errors
	ErrBroadcastFailed = errors.New("broadcast failed")

	// WebSocket errors
	ErrWebSocketConnection        = errors.New("websocket connection failed")
	ErrUnknownMessageType         = errors.New("unknown message type")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
