package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
)

// UserRepository implements the user repository interface
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new user repository
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create creates a new user row
func (r *UserRepository) Create(ctx context.Context, user *shared.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, role, location, socials, rating_avg, rating_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	socials, err := jsonValue(user.Socials)
	if err != nil {
		return err
	}

	_, err = r.conn.GetDB().ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Location,
		socials,
		user.RatingAvg,
		user.RatingCount,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role, location, socials, rating_avg, rating_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.conn.GetDB().QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*shared.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role, location, socials, rating_avg, rating_count, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.conn.GetDB().QueryRowContext(ctx, query, email))
}

// Update updates a user's profile fields
func (r *UserRepository) Update(ctx context.Context, user *shared.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, location = $4, socials = $5, updated_at = $6
		WHERE id = $1
	`

	socials, err := jsonValue(user.Socials)
	if err != nil {
		return err
	}

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Location,
		socials,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// AddRating folds one rating into the user's aggregate
func (r *UserRepository) AddRating(ctx context.Context, userID uuid.UUID, rating int) error {
	query := `
		UPDATE users
		SET rating_avg = (rating_avg * rating_count + $2) / (rating_count + 1),
		    rating_count = rating_count + 1,
		    updated_at = now()
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query, userID, rating)
	if err != nil {
		return fmt.Errorf("failed to add rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*shared.User, error) {
	var user shared.User
	var socials []byte

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Location,
		&socials,
		&user.RatingAvg,
		&user.RatingCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Socials = make(map[string]string)
	if err := scanJSON(socials, &user.Socials); err != nil {
		return nil, err
	}

	return &user, nil
}
