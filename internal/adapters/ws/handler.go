package ws

import (
	"context"
	"net/http"
	"sync"

	"click-collectible-service/internal/adapters/metrics"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler upgrades authenticated requests and routes broadcast events to
// connected clients. Each client is subscribed to its own user channel on
// connect, so every event addressed to that user reaches all of the user's
// open connections.
type WsHandler struct {
	clients       map[string]*WsClient
	clientsMu     sync.RWMutex
	eventChannels map[string]chan outbound.Event
	channelsMu    sync.RWMutex
	upgrader      websocket.Upgrader
	identity      outbound.IdentityProvider
	broadcaster   outbound.Broadcaster
	logger        zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader    websocket.Upgrader
	Identity    outbound.IdentityProvider
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:       make(map[string]*WsClient),
		eventChannels: make(map[string]chan outbound.Event),
		upgrader:      params.Upgrader,
		identity:      params.Identity,
		broadcaster:   params.Broadcaster,
		logger:        params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// ServeHTTP handles WebSocket connection upgrades. The bearer token rides
// in the query string because browser WebSocket clients cannot set headers.
func (handler *WsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}

	session, err := handler.identity.VerifyToken(r.Context(), token)
	if err != nil {
		handler.logger.Warn().Err(err).Msg("WebSocket token verification failed")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	userID := session.User.ID

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		UserID:  userID,
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	handler.registerClient(client)
	eventChan := handler.createEventChannel(client.id)

	// Every connection listens on its user's channel from the start.
	if err := handler.broadcaster.Subscribe(context.Background(), userID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe client to user channel")
		handler.unregisterClient(client)
		return
	}

	client.Start()
	go handler.listenForClientEvents(client)

	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().
		Str("client_id", client.id).
		Str("user_id", userID.String()).
		Msg("WebSocket client connected")
}

func (handler *WsHandler) createEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, 100)
	handler.eventChannels[clientID] = eventChan
	return eventChan
}

func (handler *WsHandler) getEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.RLock()
	defer handler.channelsMu.RUnlock()

	return handler.eventChannels[clientID]
}

func (handler *WsHandler) removeEventChannel(clientID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		close(eventChan)
		delete(handler.eventChannels, clientID)
	}
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	metrics.WSConnectionOpened()
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()

	if _, exists := handler.clients[client.id]; !exists {
		return
	}
	delete(handler.clients, client.id)

	if err := handler.broadcaster.Unsubscribe(context.Background(), client.userID, client.id); err != nil {
		handler.logger.Warn().Err(err).Str("client_id", client.id).Msg("Failed to unsubscribe client")
	}

	client.Stop()
	handler.removeEventChannel(client.id)
	metrics.WSConnectionClosed()

	handler.logger.Info().
		Str("client_id", client.id).
		Str("user_id", client.userID.String()).
		Int("total_clients", len(handler.clients)).
		Msg("WebSocket client disconnected")
}

// listenForClientEvents forwards broadcast events to the client connection.
func (handler *WsHandler) listenForClientEvents(client *WsClient) {
	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.id).Msg("No event channel found for client")
		return
	}

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := client.Send(convertEvent(event)); err != nil {
				handler.logger.Error().
					Err(err).
					Str("client_id", client.id).
					Str("event_type", string(event.Type)).
					Msg("Failed to forward event to client")
			}

		case <-client.ctx.Done():
			return
		}
	}
}

// HandleClientMessage routes a validated client message. Subscription to
// the caller's own channel is implicit on connect; explicit subscribe and
// unsubscribe toggle it.
func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSubscribe:
		return handler.handleSubscribe(client)

	case MessageTypeUnsubscribe:
		return handler.handleUnsubscribe(client)

	default:
		handler.logger.Warn().
			Str("client_id", client.id).
			Str("message_type", string(msg.Type)).
			Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func (handler *WsHandler) handleSubscribe(client *WsClient) error {
	ctx := context.Background()

	if handler.broadcaster.IsSubscribed(ctx, client.userID, client.id) {
		response := NewServerMessage(MessageTypeStatus)
		response.Data["status"] = "subscribed"
		return client.Send(response)
	}

	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		return shared.ErrClientEventChannelNotFound
	}

	if err := handler.broadcaster.Subscribe(ctx, client.userID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe client")
		return err
	}

	response := NewServerMessage(MessageTypeStatus)
	response.Data["status"] = "subscribed"
	return client.Send(response)
}

func (handler *WsHandler) handleUnsubscribe(client *WsClient) error {
	if err := handler.broadcaster.Unsubscribe(context.Background(), client.userID, client.id); err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeStatus)
	response.Data["status"] = "unsubscribed"
	return client.Send(response)
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}
