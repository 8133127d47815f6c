package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/domain/wishlist"

	"github.com/google/uuid"
)

const wishlistColumns = `id, owner_id, type_id, name, attributes, max_price, created_at, updated_at`

// WishlistRepository implements the wishlist repository interface
type WishlistRepository struct {
	conn *Connection
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(conn *Connection) *WishlistRepository {
	return &WishlistRepository{conn: conn}
}

// Create creates a wishlist item
func (r *WishlistRepository) Create(ctx context.Context, w *wishlist.Item) error {
	query := `
		INSERT INTO wishlist_items (` + wishlistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	attributes, err := jsonValue(w.Attributes)
	if err != nil {
		return err
	}

	_, err = r.conn.GetDB().ExecContext(ctx, query,
		w.ID,
		w.OwnerID,
		w.TypeID,
		w.Name,
		attributes,
		w.MaxPrice,
		w.CreatedAt,
		w.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}

	return nil
}

// GetByID retrieves a wishlist item by ID
func (r *WishlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*wishlist.Item, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE id = $1`

	w, err := scanWishlistItem(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrWishlistItemNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	return w, nil
}

// ListByOwner retrieves a user's wishlist
func (r *WishlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Item, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE owner_id = $1 ORDER BY created_at DESC`

	return r.queryWishlistItems(ctx, query, ownerID)
}

// ListAll retrieves every wishlist item
func (r *WishlistRepository) ListAll(ctx context.Context) ([]*wishlist.Item, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items ORDER BY created_at`

	return r.queryWishlistItems(ctx, query)
}

// Update updates a wishlist item
func (r *WishlistRepository) Update(ctx context.Context, w *wishlist.Item) error {
	query := `
		UPDATE wishlist_items
		SET name = $2, attributes = $3, max_price = $4, updated_at = $5
		WHERE id = $1
	`

	attributes, err := jsonValue(w.Attributes)
	if err != nil {
		return err
	}

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		w.ID,
		w.Name,
		attributes,
		w.MaxPrice,
		w.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrWishlistItemNotFound
	}

	return nil
}

// Delete deletes a wishlist item and, by cascade, its matches
func (r *WishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.GetDB().ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrWishlistItemNotFound
	}

	return nil
}

// CreateMatch records a wishlist/item match
func (r *WishlistRepository) CreateMatch(ctx context.Context, m *wishlist.Match) error {
	query := `
		INSERT INTO wishlist_matches (id, wishlist_item_id, item_id, notified, notified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		m.ID,
		m.WishlistItemID,
		m.ItemID,
		m.Notified,
		m.NotifiedAt,
		m.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create wishlist match: %w", err)
	}

	return nil
}

// MatchExists reports whether a match is already recorded
func (r *WishlistRepository) MatchExists(ctx context.Context, wishlistItemID, itemID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wishlist_matches WHERE wishlist_item_id = $1 AND item_id = $2)`

	var exists bool
	if err := r.conn.GetDB().QueryRowContext(ctx, query, wishlistItemID, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wishlist match: %w", err)
	}

	return exists, nil
}

// ListMatchesByOwner retrieves the matches for a user's wishlist
func (r *WishlistRepository) ListMatchesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*wishlist.Match, error) {
	query := `
		SELECT m.id, m.wishlist_item_id, m.item_id, m.notified, m.notified_at, m.created_at
		FROM wishlist_matches m
		JOIN wishlist_items w ON w.id = m.wishlist_item_id
		WHERE w.owner_id = $1
		ORDER BY m.created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist matches: %w", err)
	}
	defer rows.Close()

	var matches []*wishlist.Match
	for rows.Next() {
		var m wishlist.Match
		err := rows.Scan(&m.ID, &m.WishlistItemID, &m.ItemID, &m.Notified, &m.NotifiedAt, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist match: %w", err)
		}
		matches = append(matches, &m)
	}

	return matches, rows.Err()
}

// MarkMatchNotified sets the notified flag and timestamp
func (r *WishlistRepository) MarkMatchNotified(ctx context.Context, matchID uuid.UUID) error {
	query := `UPDATE wishlist_matches SET notified = true, notified_at = now() WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, matchID)
	if err != nil {
		return fmt.Errorf("failed to mark match notified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrMatchNotFound
	}

	return nil
}

func (r *WishlistRepository) queryWishlistItems(ctx context.Context, query string, args ...any) ([]*wishlist.Item, error) {
	rows, err := r.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []*wishlist.Item
	for rows.Next() {
		w, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, w)
	}

	return items, rows.Err()
}

func scanWishlistItem(row rowScanner) (*wishlist.Item, error) {
	var w wishlist.Item
	var attributes []byte

	err := row.Scan(
		&w.ID,
		&w.OwnerID,
		&w.TypeID,
		&w.Name,
		&attributes,
		&w.MaxPrice,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Attributes = make(map[string]any)
	if err := scanJSON(attributes, &w.Attributes); err != nil {
		return nil, err
	}

	return &w, nil
}
