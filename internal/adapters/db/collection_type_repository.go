package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CollectionTypeRepository implements the collection type registry
type CollectionTypeRepository struct {
	conn *Connection
}

// NewCollectionTypeRepository creates a new collection type repository
func NewCollectionTypeRepository(conn *Connection) *CollectionTypeRepository {
	return &CollectionTypeRepository{conn: conn}
}

// Create registers a new collection type
func (r *CollectionTypeRepository) Create(ctx context.Context, typ *collection.Type) error {
	query := `
		INSERT INTO collection_types (id, name, slug, required_attributes, optional_attributes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		typ.ID,
		typ.Name,
		typ.Slug,
		pq.Array(typ.RequiredAttributes),
		pq.Array(typ.OptionalAttributes),
		typ.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create collection type: %w", err)
	}

	return nil
}

// GetByID retrieves a type by ID
func (r *CollectionTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*collection.Type, error) {
	query := `
		SELECT id, name, slug, required_attributes, optional_attributes, created_at
		FROM collection_types
		WHERE id = $1
	`

	return r.scanType(r.conn.GetDB().QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a type by its URL-safe slug
func (r *CollectionTypeRepository) GetBySlug(ctx context.Context, slug string) (*collection.Type, error) {
	query := `
		SELECT id, name, slug, required_attributes, optional_attributes, created_at
		FROM collection_types
		WHERE slug = $1
	`

	return r.scanType(r.conn.GetDB().QueryRowContext(ctx, query, slug))
}

// List retrieves all registered types
func (r *CollectionTypeRepository) List(ctx context.Context) ([]*collection.Type, error) {
	query := `
		SELECT id, name, slug, required_attributes, optional_attributes, created_at
		FROM collection_types
		ORDER BY name
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection types: %w", err)
	}
	defer rows.Close()

	var types []*collection.Type
	for rows.Next() {
		var typ collection.Type
		err := rows.Scan(
			&typ.ID,
			&typ.Name,
			&typ.Slug,
			pq.Array(&typ.RequiredAttributes),
			pq.Array(&typ.OptionalAttributes),
			&typ.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection type: %w", err)
		}
		types = append(types, &typ)
	}

	return types, rows.Err()
}

func (r *CollectionTypeRepository) scanType(row *sql.Row) (*collection.Type, error) {
	var typ collection.Type

	err := row.Scan(
		&typ.ID,
		&typ.Name,
		&typ.Slug,
		pq.Array(&typ.RequiredAttributes),
		pq.Array(&typ.OptionalAttributes),
		&typ.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrCollectionTypeNotFound
		}
		return nil, fmt.Errorf("failed to get collection type: %w", err)
	}

	return &typ, nil
}
