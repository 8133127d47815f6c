package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"click-collectible-service/internal/adapters/metrics"
	"click-collectible-service/internal/config"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// Server is the HTTP front of the application: REST resources under /api,
// the realtime upgrade at /ws and the operational endpoints.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config *config.Config

	UserService         inbound.UserService
	CollectionService   inbound.CollectionService
	ItemService         inbound.ItemService
	WishlistService     inbound.WishlistService
	MessageService      inbound.MessageService
	NotificationService inbound.NotificationService
	MarketService       inbound.MarketService
	ReportService       inbound.ReportService
	ImportExportService inbound.ImportExportService

	Identity      outbound.IdentityProvider
	Storage       outbound.ObjectStorage
	ImageSearcher outbound.ImageSearcher

	WSHandler http.Handler
	Logger    zerolog.Logger
}

// NewServer wires the route table. Every /api route sits behind the auth
// middleware; /health, /metrics and /ws do their own gatekeeping.
func NewServer(params ServerParams) *Server {
	logger := params.Logger.With().Str("component", "http_server").Logger()

	handlers := &handlers{
		users:         params.UserService,
		collections:   params.CollectionService,
		items:         params.ItemService,
		wishlists:     params.WishlistService,
		messages:      params.MessageService,
		notifications: params.NotificationService,
		market:        params.MarketService,
		reports:       params.ReportService,
		importExport:  params.ImportExportService,
		storage:       params.Storage,
		imageSearcher: params.ImageSearcher,
		logger:        logger,
	}

	auth := newAuthMiddleware(params.Identity, params.UserService, params.Logger)

	api := http.NewServeMux()

	api.HandleFunc("GET /api/user", handlers.getProfile)
	api.HandleFunc("PATCH /api/user", handlers.updateProfile)
	api.HandleFunc("POST /api/signout", handlers.signOut)
	api.HandleFunc("GET /api/users/{id}", handlers.getUser)
	api.HandleFunc("GET /api/users/{id}/feedback", handlers.listUserFeedback)

	api.HandleFunc("GET /api/collection-types", handlers.listCollectionTypes)
	api.HandleFunc("POST /api/collection-types", handlers.createCollectionType)

	api.HandleFunc("POST /api/collections", handlers.createCollection)
	api.HandleFunc("GET /api/collections", handlers.listCollections)
	api.HandleFunc("GET /api/collections/import-export", handlers.importExportRoute)
	api.HandleFunc("POST /api/collections/import-export", handlers.importExportRoute)
	api.HandleFunc("GET /api/collections/{id}", handlers.getCollection)
	api.HandleFunc("PATCH /api/collections/{id}", handlers.updateCollection)
	api.HandleFunc("DELETE /api/collections/{id}", handlers.deleteCollection)
	api.HandleFunc("GET /api/collections/{id}/items", handlers.listItems)

	api.HandleFunc("POST /api/items", handlers.createItem)
	api.HandleFunc("GET /api/items/{id}", handlers.getItem)
	api.HandleFunc("PATCH /api/items/{id}", handlers.updateItem)
	api.HandleFunc("DELETE /api/items/{id}", handlers.deleteItem)
	api.HandleFunc("POST /api/items/{id}/sale", handlers.toggleForSale)

	api.HandleFunc("POST /api/generateReport", handlers.generateReport)
	api.HandleFunc("POST /api/uploadProofOfPurchase", handlers.uploadProofOfPurchase)
	api.HandleFunc("POST /api/googleImageSearch", handlers.imageSearch)

	api.HandleFunc("POST /api/wishlist", handlers.createWishlistItem)
	api.HandleFunc("GET /api/wishlist", handlers.listWishlist)
	api.HandleFunc("GET /api/wishlist/matches", handlers.listWishlistMatches)
	api.HandleFunc("PATCH /api/wishlist/{id}", handlers.updateWishlistItem)
	api.HandleFunc("DELETE /api/wishlist/{id}", handlers.deleteWishlistItem)

	api.HandleFunc("POST /api/messages", handlers.sendMessage)
	api.HandleFunc("GET /api/messages", handlers.listConversations)
	api.HandleFunc("GET /api/messages/{counterpart}", handlers.listThread)
	api.HandleFunc("POST /api/messages/{id}/read", handlers.markMessageRead)

	api.HandleFunc("GET /api/notifications", handlers.listNotifications)
	api.HandleFunc("POST /api/notifications/read-all", handlers.markAllNotificationsRead)
	api.HandleFunc("POST /api/notifications/{id}/read", handlers.markNotificationRead)

	api.HandleFunc("GET /api/marketplace", handlers.listForSale)
	api.HandleFunc("POST /api/transactions", handlers.createTransaction)
	api.HandleFunc("GET /api/transactions", handlers.listTransactions)
	api.HandleFunc("POST /api/feedback", handlers.leaveFeedback)
	api.HandleFunc("GET /api/advertisements", handlers.listAdvertisements)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", handleHealth)
	root.Handle("GET /metrics", metrics.Handler())
	if params.WSHandler != nil {
		root.Handle("GET /ws", params.WSHandler)
	}
	root.Handle("/api/", auth.wrap(api))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", params.Config.Server.Port),
		Handler:      metrics.InstrumentHandler(root),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		config:     params.Config,
		logger:     logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "click-collectible",
	})
}
