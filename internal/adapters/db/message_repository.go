package db

import (
	"context"
	"database/sql"
	"fmt"

	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/shared"

	"github.com/google/uuid"
)

const messageColumns = `id, sender_id, recipient_id, content, read, created_at`

// MessageRepository implements the message repository interface
type MessageRepository struct {
	conn *Connection
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(conn *Connection) *MessageRepository {
	return &MessageRepository{conn: conn}
}

// Create persists a message
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		m.ID,
		m.SenderID,
		m.RecipientID,
		m.Content,
		m.Read,
		m.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*message.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return m, nil
}

// ListThread retrieves the messages between two users, oldest first
func (r *MessageRepository) ListThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]*message.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, userID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread: %w", err)
	}
	defer rows.Close()

	var messages []*message.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ListConversations groups a user's messages by counterpart, returning the
// latest message and the unread count for each counterpart.
func (r *MessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]*message.Conversation, error) {
	query := `
		SELECT DISTINCT ON (counterpart_id)
			counterpart_id, id, sender_id, recipient_id, content, read, created_at,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.recipient_id = $1
			   AND u.sender_id = counterpart_id
			   AND u.read = false) AS unread_count
		FROM (
			SELECT *,
				CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS counterpart_id
			FROM messages
			WHERE sender_id = $1 OR recipient_id = $1
		) t
		ORDER BY counterpart_id, created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*message.Conversation
	for rows.Next() {
		var c message.Conversation
		err := rows.Scan(
			&c.CounterpartID,
			&c.LastMessage.ID,
			&c.LastMessage.SenderID,
			&c.LastMessage.RecipientID,
			&c.LastMessage.Content,
			&c.LastMessage.Read,
			&c.LastMessage.CreatedAt,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &c)
	}

	return conversations, rows.Err()
}

// MarkRead marks a message read
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.GetDB().ExecContext(ctx, `UPDATE messages SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrMessageNotFound
	}

	return nil
}

func scanMessage(row rowScanner) (*message.Message, error) {
	var m message.Message

	err := row.Scan(
		&m.ID,
		&m.SenderID,
		&m.RecipientID,
		&m.Content,
		&m.Read,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
