package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
)

const collectionColumns = `id, owner_id, type_id, type_name, name, description, private, item_count, total_value, cover_image, created_at, updated_at`

// CollectionRepository implements the collection repository interface
type CollectionRepository struct {
	conn *Connection
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(conn *Connection) *CollectionRepository {
	return &CollectionRepository{conn: conn}
}

// Create creates a new collection
func (r *CollectionRepository) Create(ctx context.Context, coll *collection.Collection) error {
	query := `
		INSERT INTO collections (` + collectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		coll.ID,
		coll.OwnerID,
		coll.TypeID,
		coll.TypeName,
		coll.Name,
		coll.Description,
		coll.Private,
		coll.ItemCount,
		coll.TotalValue,
		coll.CoverImage,
		coll.CreatedAt,
		coll.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// GetByID retrieves a collection by ID
func (r *CollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*collection.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`

	var coll collection.Collection
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&coll.ID,
		&coll.OwnerID,
		&coll.TypeID,
		&coll.TypeName,
		&coll.Name,
		&coll.Description,
		&coll.Private,
		&coll.ItemCount,
		&coll.TotalValue,
		&coll.CoverImage,
		&coll.CreatedAt,
		&coll.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	return &coll, nil
}

// ListByOwner retrieves a user's collections
func (r *CollectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []*collection.Collection
	for rows.Next() {
		var coll collection.Collection
		err := rows.Scan(
			&coll.ID,
			&coll.OwnerID,
			&coll.TypeID,
			&coll.TypeName,
			&coll.Name,
			&coll.Description,
			&coll.Private,
			&coll.ItemCount,
			&coll.TotalValue,
			&coll.CoverImage,
			&coll.CreatedAt,
			&coll.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, &coll)
	}

	return collections, rows.Err()
}

// Update updates a collection's own fields
func (r *CollectionRepository) Update(ctx context.Context, coll *collection.Collection) error {
	query := `
		UPDATE collections
		SET name = $2, description = $3, private = $4, cover_image = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		coll.ID,
		coll.Name,
		coll.Description,
		coll.Private,
		coll.CoverImage,
		coll.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrCollectionNotFound
	}

	return nil
}

// Delete deletes a collection and, by cascade, its items
func (r *CollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM collections WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrCollectionNotFound
	}

	return nil
}
