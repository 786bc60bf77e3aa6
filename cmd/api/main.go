package main

import (
	"context"
	"log"

	"warung-pos/config"
	"warung-pos/internal/handler"
	warungredis "warung-pos/internal/redis"
	"warung-pos/internal/repository"
	"warung-pos/internal/server"
	"warung-pos/internal/services"
	"warung-pos/internal/storage"
	"warung-pos/pkg/database"
	"warung-pos/pkg/events"
	"warung-pos/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	l := logger.New(cfg.AppMode)
	defer l.Logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := warungredis.NewClient(warungredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	broker := events.NewRedisBroker(redisClient)
	presenceStore := warungredis.NewPresenceStore(redisClient, 0)
	profileCache := warungredis.NewProfileCache(redisClient, 0)

	var s3Client *storage.Client
	if cfg.S3Bucket != "" {
		s3Client, err = storage.NewClient(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
			PresignTTL: cfg.S3PresignTTL,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
	} else {
		l.Warnf("S3 not configured, uploads disabled")
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	authService := services.NewAuthService(userRepo, profileRepo, cfg)
	profileService := services.NewProfileService(profileRepo, profileCache, broker)
	presenceService := services.NewPresenceService(profileRepo, presenceStore, broker)
	typingService := services.NewTypingService(chatRepo, presenceStore, broker)
	chatService := services.NewChatService(chatRepo, messageRepo, profileService, broker)
	messageService := services.NewMessageService(messageRepo, chatRepo, profileService, broker)
	uploadService := services.NewUploadService(s3Client)
	productService := services.NewProductService(productRepo)
	customerService := services.NewCustomerService(customerRepo)
	transactionService := services.NewTransactionService(db, transactionRepo, productRepo, customerRepo)
	reportService := services.NewReportService(reportRepo, transactionRepo, productRepo)
	analyticsService := services.NewAnalyticsService(transactionRepo, productRepo, customerRepo)
	settingsService := services.NewSettingsService(settingsRepo)

	hub := server.NewHub(broker, chatService, typingService, presenceService)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	handlers := &server.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Profile:     handler.NewProfileHandler(profileService, presenceService),
		Chat:        handler.NewChatHandler(chatService, typingService),
		Message:     handler.NewMessageHandler(messageService),
		Upload:      handler.NewUploadHandler(uploadService),
		Product:     handler.NewProductHandler(productService),
		Customer:    handler.NewCustomerHandler(customerService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Report:      handler.NewReportHandler(reportService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		Settings:    handler.NewSettingsHandler(settingsService),
		WebSocket:   server.NewWebSocketHandler(hub, authService),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService, db)

	if err := srv.Start(); err != nil {
		l.Errorf("server exited with error: %s", err)
	}

	stopHub()
	hub.Stop()
}
