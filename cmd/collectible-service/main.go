package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"click-collectible-service/internal/adapters/broadcaster"
	"click-collectible-service/internal/adapters/db"
	"click-collectible-service/internal/adapters/httpapi"
	"click-collectible-service/internal/adapters/identity"
	"click-collectible-service/internal/adapters/imagesearch"
	"click-collectible-service/internal/adapters/matcher"
	"click-collectible-service/internal/adapters/redis"
	"click-collectible-service/internal/adapters/storage"
	"click-collectible-service/internal/adapters/ws"
	"click-collectible-service/internal/app"
	"click-collectible-service/internal/config"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting Click & Collectible service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	dbConn, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	if err := db.RunMigrations(cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database connection established")

	repoFactory := db.NewRepositoryFactory(dbConn)
	userRepo := repoFactory.GetUserRepository()
	typeRepo := repoFactory.GetCollectionTypeRepository()
	collectionRepo := repoFactory.GetCollectionRepository()
	itemRepo := repoFactory.GetItemRepository()
	wishlistRepo := repoFactory.GetWishlistRepository()
	messageRepo := repoFactory.GetMessageRepository()
	notificationRepo := repoFactory.GetNotificationRepository()
	marketRepo := repoFactory.GetMarketRepository()

	log.Info().Msg("Database repositories initialized")

	// Redis
	redisClient := redis.NewClient(cfg)
	if err := redis.PingRedis(redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	redisBroadcaster := broadcaster.NewBroadcaster(broadcaster.RedisBroadcasterParams{
		RedisClient: redisClient,
		Logger:      log.Logger,
	})
	defer redisBroadcaster.Close()

	// External providers
	identityProvider := identity.NewProvider(identity.ProviderParams{
		Config: cfg,
		Logger: log.Logger,
	})
	bucketStorage := storage.NewBucketStorage(storage.BucketStorageParams{
		Config: cfg,
		Logger: log.Logger,
	})
	imageSearcher := imagesearch.NewGoogleSearcher(imagesearch.GoogleSearcherParams{
		Config: cfg,
		Logger: log.Logger,
	})

	// Shared application plumbing
	validator := validation.New(log.Logger)
	bus := eventbus.New(log.Logger)

	// Feature services; the notification service goes first because the
	// wishlist, message and market services notify through it.
	notificationService := app.NewNotificationService(app.NotificationServiceParams{
		NotificationRepo: notificationRepo,
		Broadcaster:      redisBroadcaster,
		Bus:              bus,
		Logger:           log.Logger,
	})
	userService := app.NewUserService(app.UserServiceParams{
		UserRepo:  userRepo,
		Identity:  identityProvider,
		Validator: validator,
		Bus:       bus,
		Logger:    log.Logger,
	})
	collectionService := app.NewCollectionService(app.CollectionServiceParams{
		CollectionRepo: collectionRepo,
		TypeRepo:       typeRepo,
		Validator:      validator,
		Bus:            bus,
		Logger:         log.Logger,
	})
	itemService := app.NewItemService(app.ItemServiceParams{
		ItemRepo:       itemRepo,
		CollectionRepo: collectionRepo,
		TypeRepo:       typeRepo,
		Validator:      validator,
		Bus:            bus,
		Logger:         log.Logger,
	})
	wishlistService := app.NewWishlistService(app.WishlistServiceParams{
		WishlistRepo: wishlistRepo,
		TypeRepo:     typeRepo,
		ItemRepo:     itemRepo,
		Notifier:     notificationService,
		Validator:    validator,
		Bus:          bus,
		Logger:       log.Logger,
	})
	messageService := app.NewMessageService(app.MessageServiceParams{
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
		Notifier:    notificationService,
		Validator:   validator,
		Bus:         bus,
		Logger:      log.Logger,
	})
	marketService := app.NewMarketService(app.MarketServiceParams{
		MarketRepo: marketRepo,
		ItemRepo:   itemRepo,
		UserRepo:   userRepo,
		Notifier:   notificationService,
		Logger:     log.Logger,
	})
	reportService := app.NewReportService(app.ReportServiceParams{
		CollectionRepo: collectionRepo,
		ItemRepo:       itemRepo,
		Logger:         log.Logger,
	})
	importExportService := app.NewImportExportService(app.ImportExportServiceParams{
		CollectionRepo: collectionRepo,
		TypeRepo:       typeRepo,
		ItemRepo:       itemRepo,
		Logger:         log.Logger,
	})

	log.Info().Msg("Business services initialized")

	// Realtime stream
	wsHandler := ws.NewHandler(ws.WsHandlerParams{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		Identity:    identityProvider,
		Broadcaster: redisBroadcaster,
		Logger:      log.Logger,
	})

	// Background wishlist matcher
	wishlistMatcher := matcher.NewMatcher(matcher.MatcherParams{
		WishlistRepo:    wishlistRepo,
		ItemRepo:        itemRepo,
		WishlistService: wishlistService,
		RedisClient:     redisClient,
		Bus:             bus,
		Interval:        cfg.Matcher.Interval,
		Logger:          log.Logger,
	})
	wishlistMatcher.Start()
	log.Info().Msg("Wishlist matcher started")

	// HTTP server
	server := httpapi.NewServer(httpapi.ServerParams{
		Config:              cfg,
		UserService:         userService,
		CollectionService:   collectionService,
		ItemService:         itemService,
		WishlistService:     wishlistService,
		MessageService:      messageService,
		NotificationService: notificationService,
		MarketService:       marketService,
		ReportService:       reportService,
		ImportExportService: importExportService,
		Identity:            identityProvider,
		Storage:             bucketStorage,
		ImageSearcher:       imageSearcher,
		WSHandler:           wsHandler,
		Logger:              log.Logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	wishlistMatcher.Stop()
	log.Info().Msg("Wishlist matcher stopped")

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	log.Info().Msg("Graceful shutdown completed")
}

func initLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.DefaultContextLogger = &log.Logger
}
