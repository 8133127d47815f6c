package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const itemColumns = `id, collection_id, owner_id, name, description, purchase_price, current_value, currency, purchase_date, purchase_place, condition, attributes, images, for_sale, asking_price, proof_of_purchase, created_at, updated_at`

// recomputeAggregatesQuery refreshes the owning collection's denormalized
// item_count/total_value caches from the items relation. It runs in the
// same transaction as every item mutation.
const recomputeAggregatesQuery = `
	UPDATE collections
	SET item_count = (SELECT COUNT(*) FROM items WHERE collection_id = $1),
	    total_value = (SELECT COALESCE(SUM(current_value), 0) FROM items WHERE collection_id = $1),
	    updated_at = now()
	WHERE id = $1
`

// ItemRepository implements the item repository interface
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// Create inserts an item and refreshes the collection aggregates in one
// transaction
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	return r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		if err := insertItem(ctx, tx, it); err != nil {
			return err
		}
		return recomputeAggregates(ctx, tx, it.CollectionID)
	})
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	it, err := scanItem(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

// ListByCollection retrieves the items of one collection
func (r *ItemRepository) ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE collection_id = $1 ORDER BY created_at`

	return r.queryItems(ctx, query, collectionID)
}

// ListForSaleByType retrieves for-sale items whose collection has the given type
func (r *ItemRepository) ListForSaleByType(ctx context.Context, typeID uuid.UUID) ([]*item.Item, error) {
	query := `
		SELECT ` + prefixedItemColumns("i") + `
		FROM items i
		JOIN collections c ON c.id = i.collection_id
		WHERE i.for_sale = true AND c.type_id = $1
		ORDER BY i.updated_at DESC
	`

	return r.queryItems(ctx, query, typeID)
}

// ListForSale retrieves all for-sale items
func (r *ItemRepository) ListForSale(ctx context.Context) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE for_sale = true ORDER BY updated_at DESC`

	return r.queryItems(ctx, query)
}

// Update updates an item and refreshes the collection aggregates in one
// transaction
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	return r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		query := `
			UPDATE items
			SET name = $2, description = $3, purchase_price = $4, current_value = $5,
			    currency = $6, purchase_date = $7, purchase_place = $8, condition = $9,
			    attributes = $10, images = $11, for_sale = $12, asking_price = $13,
			    proof_of_purchase = $14, updated_at = $15
			WHERE id = $1
		`

		attributes, err := jsonValue(it.Attributes)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query,
			it.ID,
			it.Name,
			it.Description,
			it.PurchasePrice,
			it.CurrentValue,
			it.Currency,
			it.PurchaseDate,
			it.PurchasePlace,
			it.Condition,
			attributes,
			pq.Array(it.Images),
			it.ForSale,
			it.AskingPrice,
			pq.Array(it.ProofOfPurchase),
			it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return shared.ErrItemNotFound
		}

		return recomputeAggregates(ctx, tx, it.CollectionID)
	})
}

// Delete deletes an item and refreshes the collection aggregates in one
// transaction
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		var collectionID uuid.UUID
		err := tx.QueryRowContext(ctx, `DELETE FROM items WHERE id = $1 RETURNING collection_id`, id).Scan(&collectionID)
		if err != nil {
			if err == sql.ErrNoRows {
				return shared.ErrItemNotFound
			}
			return fmt.Errorf("failed to delete item: %w", err)
		}

		return recomputeAggregates(ctx, tx, collectionID)
	})
}

// BulkInsert inserts a batch into one collection. The collection's item
// count is incremented by the inserted count and the value aggregate is
// refreshed, all in the same transaction as the inserts.
func (r *ItemRepository) BulkInsert(ctx context.Context, collectionID uuid.UUID, items []*item.Item) (int, error) {
	inserted := 0

	err := r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		for _, it := range items {
			if err := insertItem(ctx, tx, it); err != nil {
				return err
			}
			inserted++
		}

		incrementQuery := `
			UPDATE collections
			SET item_count = item_count + $2,
			    total_value = (SELECT COALESCE(SUM(current_value), 0) FROM items WHERE collection_id = $1),
			    updated_at = now()
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, incrementQuery, collectionID, inserted); err != nil {
			return fmt.Errorf("failed to increment item count: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, it *item.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	attributes, err := jsonValue(it.Attributes)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query,
		it.ID,
		it.CollectionID,
		it.OwnerID,
		it.Name,
		it.Description,
		it.PurchasePrice,
		it.CurrentValue,
		it.Currency,
		it.PurchaseDate,
		it.PurchasePlace,
		it.Condition,
		attributes,
		pq.Array(it.Images),
		it.ForSale,
		it.AskingPrice,
		pq.Array(it.ProofOfPurchase),
		it.CreatedAt,
		it.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

func recomputeAggregates(ctx context.Context, tx *sql.Tx, collectionID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, recomputeAggregatesQuery, collectionID); err != nil {
		return fmt.Errorf("failed to recompute collection aggregates: %w", err)
	}
	return nil
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]*item.Item, error) {
	rows, err := r.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var attributes []byte

	err := row.Scan(
		&it.ID,
		&it.CollectionID,
		&it.OwnerID,
		&it.Name,
		&it.Description,
		&it.PurchasePrice,
		&it.CurrentValue,
		&it.Currency,
		&it.PurchaseDate,
		&it.PurchasePlace,
		&it.Condition,
		&attributes,
		pq.Array(&it.Images),
		&it.ForSale,
		&it.AskingPrice,
		pq.Array(&it.ProofOfPurchase),
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.Attributes = make(map[string]any)
	if err := scanJSON(attributes, &it.Attributes); err != nil {
		return nil, err
	}

	return &it, nil
}

func prefixedItemColumns(alias string) string {
	return alias + ".id, " + alias + ".collection_id, " + alias + ".owner_id, " + alias + ".name, " +
		alias + ".description, " + alias + ".purchase_price, " + alias + ".current_value, " + alias + ".currency, " +
		alias + ".purchase_date, " + alias + ".purchase_place, " + alias + ".condition, " + alias + ".attributes, " +
		alias + ".images, " + alias + ".for_sale, " + alias + ".asking_price, " + alias + ".proof_of_purchase, " +
		alias + ".created_at, " + alias + ".updated_at"
}
