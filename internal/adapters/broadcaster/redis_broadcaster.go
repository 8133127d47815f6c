package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"click-collectible-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBroadcaster implements the broadcaster interface using Redis pub/sub.
// Channels are keyed per user so notification and message events reach every
// connected client of that user across service instances.
type RedisBroadcaster struct {
	client        *redis.Client
	subscribers   map[string]chan outbound.Event // clientID -> local channel
	pubsubs       map[string]*redis.PubSub       // clientID -> pubsub instance
	clientsToUser map[string]map[string]bool     // clientID -> userID -> subscribed
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	logger        zerolog.Logger
}

type RedisBroadcasterParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

func NewBroadcaster(params RedisBroadcasterParams) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())

	broadcaster := &RedisBroadcaster{
		client:        params.RedisClient,
		subscribers:   make(map[string]chan outbound.Event),
		pubsubs:       make(map[string]*redis.PubSub),
		clientsToUser: make(map[string]map[string]bool),
		ctx:           ctx,
		cancel:        cancel,
		logger:        params.Logger.With().Str("component", "redis_broadcaster").Logger(),
	}

	return broadcaster
}

func userChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID.String())
}

// Subscribe subscribes a client to a user's event channel
func (r *RedisBroadcaster) Subscribe(ctx context.Context, userID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clientsToUser[clientID] != nil && r.clientsToUser[clientID][userID.String()] {
		r.logger.Info().
			Str("client_id", clientID).
			Str("user_id", userID.String()).
			Msg("Client already subscribed to user channel")
		return nil
	}

	// Store the event channel if this is the first subscription
	if r.subscribers[clientID] == nil {
		r.subscribers[clientID] = eventChan
	}

	if r.clientsToUser[clientID] == nil {
		r.clientsToUser[clientID] = make(map[string]bool)
	}
	r.clientsToUser[clientID][userID.String()] = true

	// Get or create pubsub connection for this client
	var pubsub *redis.PubSub
	if existingPubsub, exists := r.pubsubs[clientID]; exists {
		pubsub = existingPubsub
	} else {
		pubsub = r.client.Subscribe(ctx)
		r.pubsubs[clientID] = pubsub

		// Forward Redis messages into the client's local channel
		go r.listenForRedisMessages(pubsub, clientID, eventChan)
	}

	if err := pubsub.Subscribe(ctx, userChannel(userID)); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("user_id", userID.String()).Msg("Failed to subscribe to Redis channel")
		return err
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("user_id", userID.String()).
		Msg("Client subscribed to user channel via Redis")
	return nil
}

// Unsubscribe unsubscribes a client from a user's event channel
func (r *RedisBroadcaster) Unsubscribe(ctx context.Context, userID uuid.UUID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if clientUsers, exists := r.clientsToUser[clientID]; exists {
		delete(clientUsers, userID.String())

		// If no more channels, clean up the client entry
		if len(clientUsers) == 0 {
			delete(r.clientsToUser, clientID)

			if eventChan, exists := r.subscribers[clientID]; exists {
				close(eventChan)
				delete(r.subscribers, clientID)
			}

			if pubsub, exists := r.pubsubs[clientID]; exists {
				if err := pubsub.Close(); err != nil {
					r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
				}
				delete(r.pubsubs, clientID)
			}
		} else {
			if pubsub, exists := r.pubsubs[clientID]; exists {
				if err := pubsub.Unsubscribe(ctx, userChannel(userID)); err != nil {
					r.logger.Error().Err(err).Str("client_id", clientID).Str("user_id", userID.String()).Msg("Error unsubscribing from Redis channel")
				}
			}
		}
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("user_id", userID.String()).
		Msg("Client unsubscribed from user channel")
	return nil
}

// Publish publishes an event to all clients on a user's channel via Redis
func (r *RedisBroadcaster) Publish(ctx context.Context, userID uuid.UUID, event outbound.Event) error {
	channelName := userChannel(userID)

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := r.client.Publish(ctx, channelName, eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Info().
		Str("event_type", string(event.Type)).
		Str("user_id", userID.String()).
		Int64("subscriber_count", result.Val()).
		Msg("Published event to user channel")

	return nil
}

// IsSubscribed checks whether a client is on a user's channel
func (r *RedisBroadcaster) IsSubscribed(ctx context.Context, userID uuid.UUID, clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientUsers, exists := r.clientsToUser[clientID]
	if !exists {
		return false
	}

	return clientUsers[userID.String()]
}

// listenForRedisMessages forwards Redis messages to the local channel
func (r *RedisBroadcaster) listenForRedisMessages(pubsub *redis.PubSub, clientID string, localChan chan outbound.Event) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("client_id", clientID).Msg("Redis message listener panic for client")
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Info().Str("client_id", clientID).Msg("Redis channel closed for client")
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message for client")
				continue
			}

			select {
			case localChan <- event:
			default:
				r.logger.Warn().Str("client_id", clientID).Msg("Local channel full for client, dropping event")
			}

		case <-r.ctx.Done():
			r.logger.Info().Str("client_id", clientID).Msg("Redis broadcaster context cancelled for client")
			return
		}
	}
}

func (r *RedisBroadcaster) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, eventChan := range r.subscribers {
		close(eventChan)
		delete(r.subscribers, clientID)
	}

	for clientID, pubsub := range r.pubsubs {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
	}

	return r.client.Close()
}
