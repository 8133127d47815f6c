package item

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied when a currency is not supplied.
const DefaultCurrency = "USD"

// Item is a cataloged collectible. Attributes is an open map keyed by the
// owning collection type's schema.
type Item struct {
	ID              uuid.UUID      `json:"id"`
	CollectionID    uuid.UUID      `json:"collection_id"`
	OwnerID         uuid.UUID      `json:"owner_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	PurchasePrice   float64        `json:"purchase_price"`
	CurrentValue    float64        `json:"current_value"`
	Currency        string         `json:"currency"`
	PurchaseDate    *time.Time     `json:"purchase_date,omitempty"`
	PurchasePlace   string         `json:"purchase_place"`
	Condition       string         `json:"condition"`
	Attributes      map[string]any `json:"attributes"`
	Images          []string       `json:"images"`
	ForSale         bool           `json:"for_sale"`
	AskingPrice     *float64       `json:"asking_price,omitempty"`
	ProofOfPurchase []string       `json:"proof_of_purchase"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OwnedBy reports whether userID owns the item.
func (i *Item) OwnedBy(userID uuid.UUID) bool {
	return i.OwnerID == userID
}

// ValueChange returns the absolute change between current value and
// purchase price.
func (i *Item) ValueChange() float64 {
	return i.CurrentValue - i.PurchasePrice
}

// ValueChangePercent returns the percentage change relative to the purchase
// price. A zero or absent purchase price yields 0 rather than a
// division-by-zero fault.
func (i *Item) ValueChangePercent() float64 {
	if i.PurchasePrice == 0 {
		return 0
	}
	return i.ValueChange() / i.PurchasePrice * 100
}
