package inbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/notification"
)

// MessageService defines the interface for direct messaging
type MessageService interface {
	// SendMessage persists a message and notifies the recipient
	SendMessage(ctx context.Context, req SendMessageRequest) (*message.Message, error)

	// ListConversations groups the caller's messages by counterpart
	ListConversations(ctx context.Context, callerID uuid.UUID) ([]*message.Conversation, error)

	// ListThread retrieves the caller's conversation with one counterpart
	ListThread(ctx context.Context, callerID, counterpartID uuid.UUID) ([]*message.Message, error)

	// MarkRead marks a message addressed to the caller as read
	MarkRead(ctx context.Context, callerID, messageID uuid.UUID) error
}

// request to send a message
type SendMessageRequest struct {
	SenderID    uuid.UUID `json:"-"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	// Notify creates a typed notification and publishes it
	Notify(ctx context.Context, req NotifyRequest) (*notification.Notification, error)

	// ListNotifications retrieves the caller's notifications, newest first
	ListNotifications(ctx context.Context, callerID uuid.UUID) ([]*notification.Notification, error)

	// MarkRead marks one of the caller's notifications read
	MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) error

	// MarkAllRead marks all of the caller's notifications read
	MarkAllRead(ctx context.Context, callerID uuid.UUID) error
}

// request to create a notification
type NotifyRequest struct {
	UserID    uuid.UUID         `json:"user_id"`
	Type      notification.Type `json:"type"`
	Content   string            `json:"content"`
	RelatedID *uuid.UUID        `json:"related_id,omitempty"`
}
