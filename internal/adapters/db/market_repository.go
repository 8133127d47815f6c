package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"click-collectible-service/internal/domain/market"
	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
)

const transactionColumns = `id, item_id, buyer_id, seller_id, amount, currency, status, created_at, updated_at`

// MarketRepository implements the marketplace repository interface
type MarketRepository struct {
	conn *Connection
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(conn *Connection) *MarketRepository {
	return &MarketRepository{conn: conn}
}

// CreateTransaction persists a transaction
func (r *MarketRepository) CreateTransaction(ctx context.Context, t *market.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		t.ID,
		t.ItemID,
		t.BuyerID,
		t.SellerID,
		t.Amount,
		t.Currency,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID
func (r *MarketRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*market.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// ListTransactionsByUser retrieves transactions where the user is buyer or seller
func (r *MarketRepository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID) ([]*market.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*market.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// UpdateTransactionStatus moves a transaction through its lifecycle
func (r *MarketRepository) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status market.TransactionStatus) error {
	query := `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrTransactionNotFound
	}

	return nil
}

// CreateFeedback persists feedback
func (r *MarketRepository) CreateFeedback(ctx context.Context, f *market.Feedback) error {
	query := `
		INSERT INTO feedback (id, transaction_id, rater_id, rated_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		f.ID,
		f.TransactionID,
		f.RaterID,
		f.RatedID,
		f.Rating,
		f.Comment,
		f.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// ListFeedbackForUser retrieves feedback left about a user
func (r *MarketRepository) ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*market.Feedback, error) {
	query := `
		SELECT id, transaction_id, rater_id, rated_id, rating, comment, created_at
		FROM feedback
		WHERE rated_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []*market.Feedback
	for rows.Next() {
		var f market.Feedback
		err := rows.Scan(&f.ID, &f.TransactionID, &f.RaterID, &f.RatedID, &f.Rating, &f.Comment, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, &f)
	}

	return feedback, rows.Err()
}

// ListActiveAdvertisements retrieves currently running ads
func (r *MarketRepository) ListActiveAdvertisements(ctx context.Context) ([]*market.Advertisement, error) {
	query := `
		SELECT id, title, image_url, target_url, active, starts_at, ends_at, created_at
		FROM advertisements
		WHERE active = true AND starts_at <= now() AND ends_at >= now()
		ORDER BY starts_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	defer rows.Close()

	var ads []*market.Advertisement
	for rows.Next() {
		var a market.Advertisement
		err := rows.Scan(&a.ID, &a.Title, &a.ImageURL, &a.TargetURL, &a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advertisement: %w", err)
		}
		ads = append(ads, &a)
	}

	return ads, rows.Err()
}

func scanTransaction(row rowScanner) (*market.Transaction, error) {
	var t market.Transaction

	err := row.Scan(
		&t.ID,
		&t.ItemID,
		&t.BuyerID,
		&t.SellerID,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
