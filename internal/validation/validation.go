// Package validation implements boundary shape-checks for domain entities.
// A check runs wherever data crosses a module boundary: incoming requests
// before persistence, persisted rows before they leave a service. Failures
// name the offending fields and abort the calling operation; the only
// silent coercions are the documented defaults (currency, images, for-sale
// flag).
package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/domain/wishlist"
)

// Direction tells which way the data is crossing the boundary.
type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

// Context carries diagnostic metadata for a boundary crossing. It is logged
// on failure and never affects pass/fail.
type Context struct {
	Action    string
	Source    string
	Dest      string
	Direction Direction
}

// FieldError names one offending field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is a structured validation failure.
type Error struct {
	Entity string       `json:"entity"`
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

type checker struct {
	entity string
	fields []FieldError
}

func (c *checker) require(ok bool, field, reason string) {
	if !ok {
		c.fields = append(c.fields, FieldError{Field: field, Reason: reason})
	}
}

func (c *checker) result(ctx Context, logger zerolog.Logger) error {
	if len(c.fields) == 0 {
		return nil
	}
	err := &Error{Entity: c.entity, Fields: c.fields}
	logger.Warn().
		Str("entity", c.entity).
		Str("action", ctx.Action).
		Str("source", ctx.Source).
		Str("dest", ctx.Dest).
		Str("direction", string(ctx.Direction)).
		Str("fields", err.Error()).
		Msg("Boundary validation failed")
	return err
}

// Validator runs entity shape-checks and logs failures with their crossing
// context.
type Validator struct {
	logger zerolog.Logger
}

// New creates a validator.
func New(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger.With().Str("component", "validation").Logger()}
}

// Collection validates a collection at a module boundary.
func (v *Validator) Collection(c *collection.Collection, ctx Context) error {
	ch := &checker{entity: "collection"}
	ch.require(c.Name != "", "name", "required")
	ch.require(c.OwnerID != uuid.Nil, "owner_id", "required")
	ch.require(c.TypeID != uuid.Nil, "type_id", "required")
	ch.require(c.ItemCount >= 0, "item_count", "must not be negative")
	return ch.result(ctx, v.logger)
}

// CollectionType validates a collection type definition.
func (v *Validator) CollectionType(t *collection.Type, ctx Context) error {
	ch := &checker{entity: "collection_type"}
	ch.require(t.Name != "", "name", "required")
	ch.require(t.Slug != "", "slug", "required")
	ch.require(!strings.ContainsAny(t.Slug, " /?#"), "slug", "must be URL-safe")
	return ch.result(ctx, v.logger)
}

// Item validates an item against its owning collection type's schema and
// fills defaults: currency, images, proof list.
func (v *Validator) Item(i *item.Item, typ *collection.Type, ctx Context) error {
	if i.Currency == "" {
		i.Currency = item.DefaultCurrency
	}
	if i.Images == nil {
		i.Images = []string{}
	}
	if i.ProofOfPurchase == nil {
		i.ProofOfPurchase = []string{}
	}

	ch := &checker{entity: "item"}
	ch.require(i.Name != "", "name", "required")
	ch.require(i.OwnerID != uuid.Nil, "owner_id", "required")
	ch.require(i.CollectionID != uuid.Nil, "collection_id", "required")
	ch.require(i.PurchasePrice >= 0, "purchase_price", "must not be negative")
	ch.require(i.CurrentValue >= 0, "current_value", "must not be negative")
	if i.ForSale {
		ch.require(i.AskingPrice != nil, "asking_price", "required when for_sale is set")
		if i.AskingPrice != nil {
			ch.require(*i.AskingPrice > 0, "asking_price", "must be greater than 0")
		}
	}
	if typ != nil {
		for _, attr := range typ.RequiredAttributes {
			val, ok := i.Attributes[attr]
			present := ok && val != nil && fmt.Sprintf("%v", val) != ""
			ch.require(present, "attributes."+attr, "required by type "+typ.Slug)
		}
	}
	return ch.result(ctx, v.logger)
}

// WishlistItem validates a desired-item specification.
func (v *Validator) WishlistItem(w *wishlist.Item, ctx Context) error {
	ch := &checker{entity: "wishlist_item"}
	ch.require(w.Name != "", "name", "required")
	ch.require(w.OwnerID != uuid.Nil, "owner_id", "required")
	ch.require(w.TypeID != uuid.Nil, "type_id", "required")
	if w.MaxPrice != nil {
		ch.require(*w.MaxPrice > 0, "max_price", "must be greater than 0")
	}
	return ch.result(ctx, v.logger)
}

// User validates a profile record.
func (v *Validator) User(u *shared.User, ctx Context) error {
	ch := &checker{entity: "user"}
	ch.require(u.ID != uuid.Nil, "id", "required")
	ch.require(u.Email != "", "email", "required")
	ch.require(strings.Contains(u.Email, "@"), "email", "must be an email address")
	ch.require(u.RatingCount >= 0, "rating_count", "must not be negative")
	return ch.result(ctx, v.logger)
}

// Message validates a direct message.
func (v *Validator) Message(m *message.Message, ctx Context) error {
	ch := &checker{entity: "message"}
	ch.require(m.SenderID != uuid.Nil, "sender_id", "required")
	ch.require(m.RecipientID != uuid.Nil, "recipient_id", "required")
	ch.require(m.SenderID != m.RecipientID, "recipient_id", "must differ from sender")
	ch.require(strings.TrimSpace(m.Content) != "", "content", "required")
	return ch.result(ctx, v.logger)
}
