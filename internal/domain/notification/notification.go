package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification.
type Type string

const (
	TypeWishlistMatch Type = "wishlist_match"
	TypeMessage       Type = "message"
	TypeTransaction   Type = "transaction"
	TypeSale          Type = "sale"
	TypeFeedback      Type = "feedback"
	TypeAlert         Type = "alert"
)

// Valid reports whether t is a known notification type.
func (t Type) Valid() bool {
	switch t {
	case TypeWishlistMatch, TypeMessage, TypeTransaction, TypeSale, TypeFeedback, TypeAlert:
		return true
	}
	return false
}

// Notification is a typed alert for a user, optionally pointing at a
// related entity.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Type      Type       `json:"type"`
	Content   string     `json:"content"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
