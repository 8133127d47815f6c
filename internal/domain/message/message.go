package message

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users.
type Message struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// VisibleTo reports whether userID is a party to the message.
func (m *Message) VisibleTo(userID uuid.UUID) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// Conversation is the per-counterpart grouping of a user's messages. It is
// derived from the messages relation, not stored.
type Conversation struct {
	CounterpartID uuid.UUID `json:"counterpart_id"`
	LastMessage   Message   `json:"last_message"`
	UnreadCount   int       `json:"unread_count"`
}
