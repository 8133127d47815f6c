package collection

import (
	"time"

	"github.com/google/uuid"
)

// Type is a lightweight schema registry entry: it names the custom
// attributes items of a category carry and drives dynamic form and CSV
// template generation.
type Type struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	RequiredAttributes []string  `json:"required_attributes"`
	OptionalAttributes []string  `json:"optional_attributes"`
	CreatedAt          time.Time `json:"created_at"`
}

// AttributeNames returns required followed by optional attribute names.
func (t *Type) AttributeNames() []string {
	names := make([]string, 0, len(t.RequiredAttributes)+len(t.OptionalAttributes))
	names = append(names, t.RequiredAttributes...)
	return append(names, t.OptionalAttributes...)
}

// Collection groups a user's items under one type.
//
// ItemCount and TotalValue are denormalized caches over the collection's
// items; every item mutation recomputes them in the same transaction.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TypeID      uuid.UUID `json:"type_id"`
	TypeName    string    `json:"type_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	ItemCount   int       `json:"item_count"`
	TotalValue  float64   `json:"total_value"`
	CoverImage  string    `json:"cover_image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID owns the collection.
func (c *Collection) OwnedBy(userID uuid.UUID) bool {
	return c.OwnerID == userID
}
