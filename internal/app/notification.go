package app

import (
	"context"
	"time"

	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NotificationService implements notification use cases. Created
// notifications are persisted, announced on the in-process bus, and pushed
// to connected clients through the broadcaster.
type NotificationService struct {
	notificationRepo outbound.NotificationRepository
	broadcaster      outbound.Broadcaster
	bus              outbound.EventBus
	logger           zerolog.Logger
}

type NotificationServiceParams struct {
	NotificationRepo outbound.NotificationRepository
	Broadcaster      outbound.Broadcaster
	Bus              outbound.EventBus
	Logger           zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(params NotificationServiceParams) *NotificationService {
	return &NotificationService{
		notificationRepo: params.NotificationRepo,
		broadcaster:      params.Broadcaster,
		bus:              params.Bus,
		logger:           params.Logger.With().Str("component", "notification_service").Logger(),
	}
}

// Notify creates a typed notification and publishes it
func (service *NotificationService) Notify(ctx context.Context, req inbound.NotifyRequest) (*notification.Notification, error) {
	if !req.Type.Valid() {
		return nil, shared.ErrInvalidRequest
	}
	if req.UserID == uuid.Nil || req.Content == "" {
		return nil, shared.ErrInvalidRequest
	}

	n := &notification.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Content:   req.Content,
		RelatedID: req.RelatedID,
		CreatedAt: time.Now(),
	}

	if err := service.notificationRepo.Create(ctx, n); err != nil {
		service.logger.Error().Err(err).Str("notification_id", n.ID.String()).Msg("Failed to save notification")
		return nil, err
	}

	service.logger.Info().
		Str("notification_id", n.ID.String()).
		Str("user_id", n.UserID.String()).
		Str("type", string(n.Type)).
		Msg("Notification created")

	service.bus.Publish(eventbus.NotificationCreated, n)

	if service.broadcaster != nil {
		data := map[string]any{
			"id":      n.ID.String(),
			"type":    string(n.Type),
			"content": n.Content,
		}
		if n.RelatedID != nil {
			data["related_id"] = n.RelatedID.String()
		}
		event := outbound.Event{
			Type:      broadcastEventType(n.Type),
			UserID:    n.UserID,
			Data:      data,
			Timestamp: n.CreatedAt.Unix(),
		}
		if err := service.broadcaster.Publish(ctx, n.UserID, event); err != nil {
			service.logger.Error().Err(err).Str("notification_id", n.ID.String()).Msg("Failed to broadcast notification")
		}
	}

	return n, nil
}

// broadcastEventType picks the realtime channel frame for a notification.
// Message and wishlist-match notifications get their dedicated event types so
// clients can route them without inspecting the payload.
func broadcastEventType(t notification.Type) outbound.EventType {
	switch t {
	case notification.TypeMessage:
		return outbound.EventTypeMessage
	case notification.TypeWishlistMatch:
		return outbound.EventTypeWishlistMatch
	default:
		return outbound.EventTypeNotification
	}
}

// ListNotifications retrieves the caller's notifications, newest first
func (service *NotificationService) ListNotifications(ctx context.Context, callerID uuid.UUID) ([]*notification.Notification, error) {
	return service.notificationRepo.ListByUser(ctx, callerID)
}

// MarkRead marks one of the caller's notifications read
func (service *NotificationService) MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) error {
	n, err := service.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if n.UserID != callerID {
		service.logger.Warn().
			Str("notification_id", notificationID.String()).
			Str("caller_id", callerID.String()).
			Msg("Notification mark-read denied")
		return shared.ErrForbidden
	}

	return service.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks all of the caller's notifications read
func (service *NotificationService) MarkAllRead(ctx context.Context, callerID uuid.UUID) error {
	return service.notificationRepo.MarkAllRead(ctx, callerID)
}
