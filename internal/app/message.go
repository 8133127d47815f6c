package app

import (
	"context"
	"time"

	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MessageService implements direct messaging
type MessageService struct {
	messageRepo outbound.MessageRepository
	userRepo    outbound.UserRepository
	notifier    inbound.NotificationService
	validator   *validation.Validator
	bus         outbound.EventBus
	logger      zerolog.Logger
}

type MessageServiceParams struct {
	MessageRepo outbound.MessageRepository
	UserRepo    outbound.UserRepository
	Notifier    inbound.NotificationService
	Validator   *validation.Validator
	Bus         outbound.EventBus
	Logger      zerolog.Logger
}

// NewMessageService creates a new message service
func NewMessageService(params MessageServiceParams) *MessageService {
	return &MessageService{
		messageRepo: params.MessageRepo,
		userRepo:    params.UserRepo,
		notifier:    params.Notifier,
		validator:   params.Validator,
		bus:         params.Bus,
		logger:      params.Logger.With().Str("component", "message_service").Logger(),
	}
}

// SendMessage persists a message and notifies the recipient
func (service *MessageService) SendMessage(ctx context.Context, req inbound.SendMessageRequest) (*message.Message, error) {
	if req.RecipientID == uuid.Nil {
		return nil, shared.ErrRecipientRequired
	}

	recipient, err := service.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		service.logger.Warn().Err(err).Str("recipient_id", req.RecipientID.String()).Msg("Recipient not found")
		return nil, err
	}

	m := &message.Message{
		ID:          uuid.New(),
		SenderID:    req.SenderID,
		RecipientID: recipient.ID,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}

	vctx := validation.Context{Action: "send_message", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.Message(m, vctx); err != nil {
		return nil, err
	}

	if err := service.messageRepo.Create(ctx, m); err != nil {
		service.logger.Error().Err(err).Str("message_id", m.ID.String()).Msg("Failed to save message")
		return nil, err
	}

	out := validation.Context{Action: "send_message", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.Message(m, out); err != nil {
		return nil, err
	}

	service.logger.Info().
		Str("message_id", m.ID.String()).
		Str("sender_id", m.SenderID.String()).
		Str("recipient_id", m.RecipientID.String()).
		Msg("Message sent")

	if service.notifier != nil {
		_, err := service.notifier.Notify(ctx, inbound.NotifyRequest{
			UserID:    m.RecipientID,
			Type:      notification.TypeMessage,
			Content:   "You have a new message",
			RelatedID: &m.ID,
		})
		if err != nil {
			service.logger.Error().Err(err).Str("message_id", m.ID.String()).Msg("Failed to notify recipient")
		}
	}

	service.bus.Publish(eventbus.MessageSent, m)

	return m, nil
}

// ListConversations groups the caller's messages by counterpart
func (service *MessageService) ListConversations(ctx context.Context, callerID uuid.UUID) ([]*message.Conversation, error) {
	return service.messageRepo.ListConversations(ctx, callerID)
}

// ListThread retrieves the caller's conversation with one counterpart
func (service *MessageService) ListThread(ctx context.Context, callerID, counterpartID uuid.UUID) ([]*message.Message, error) {
	return service.messageRepo.ListThread(ctx, callerID, counterpartID)
}

// MarkRead marks a message addressed to the caller as read. Only the
// recipient may mark a message read.
func (service *MessageService) MarkRead(ctx context.Context, callerID, messageID uuid.UUID) error {
	m, err := service.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if m.RecipientID != callerID {
		service.logger.Warn().
			Str("message_id", messageID.String()).
			Str("caller_id", callerID.String()).
			Msg("Mark-read denied")
		return shared.ErrForbidden
	}

	return service.messageRepo.MarkRead(ctx, messageID)
}
