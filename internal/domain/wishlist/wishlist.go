package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// Item is a desired-item specification: a collection type, a set of
// attribute constraints a candidate must carry, and an optional price cap.
type Item struct {
	ID         uuid.UUID      `json:"id"`
	OwnerID    uuid.UUID      `json:"owner_id"`
	TypeID     uuid.UUID      `json:"type_id"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
	MaxPrice   *float64       `json:"max_price,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// OwnedBy reports whether userID owns the wishlist item.
func (w *Item) OwnedBy(userID uuid.UUID) bool {
	return w.OwnerID == userID
}

// Match records that a live marketplace item satisfied a wishlist
// specification. Notified guards against duplicate alerts.
type Match struct {
	ID             uuid.UUID  `json:"id"`
	WishlistItemID uuid.UUID  `json:"wishlist_item_id"`
	ItemID         uuid.UUID  `json:"item_id"`
	Notified       bool       `json:"notified"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
