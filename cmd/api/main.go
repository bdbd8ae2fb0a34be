package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/artvault/internal/api"
	"github.com/timmy/artvault/internal/api/middleware"
	"github.com/timmy/artvault/internal/config"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/seed"
	"github.com/timmy/artvault/internal/service"
	"github.com/timmy/artvault/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLog := logger.NewDefault()
	logger.SetDefaultLogger(appLog)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	artistRepo := repository.NewArtistRepository(db)
	artworkRepo := repository.NewArtworkRepository(db)

	// Initialize storage (supports MinIO, R2, S3)
	objectStorage, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage")
	}

	// Ensure bucket exists
	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Optional startup seeding
	if cfg.Seeder.Enabled {
		seeder := seed.NewSeeder(db)
		if err := seeder.WaitForReady(ctx, cfg.Seeder.ReadinessAttempts, cfg.Seeder.ReadinessInterval); err != nil {
			appLog.WithError(err).Fatal("Database never became ready")
		}
		if err := seeder.SeedIfEmpty(ctx, cfg.Seeder.ArtistsFile); err != nil {
			appLog.WithError(err).Fatal("Failed to seed database")
		}
	}

	// Build the three-tier model cascade
	policy := service.RetryPolicy{
		MaxAttempts: cfg.Fallback.AttemptsPerTier,
		BaseDelay:   cfg.Fallback.BaseDelay,
		Multiplier:  cfg.Fallback.Multiplier,
	}
	fallbackChain, err := service.NewFallbackChain(policy,
		vlmTier(1, cfg.VLM.PrimaryModel, &cfg.VLM),
		vlmTier(2, cfg.VLM.SecondaryModel, &cfg.VLM),
		vlmTier(3, cfg.VLM.TertiaryModel, &cfg.VLM),
	)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build model cascade")
	}

	// Initialize embedding service
	embeddingAPIKey := cfg.Embedding.APIKey
	if embeddingAPIKey == "" {
		embeddingAPIKey = cfg.VLM.APIKey
	}
	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:      cfg.Embedding.Model,
		APIKey:     embeddingAPIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	// Initialize ingestion pipeline
	ingestService := service.NewIngestService(
		artistRepo,
		artworkRepo,
		objectStorage,
		fallbackChain,
		embeddingService,
		cfg.Storage.KeyPrefix,
	)

	// Initialize art-master chat
	chatService := service.NewChatService(&service.ChatConfig{
		Model:           cfg.Chat.Model,
		APIKey:          cfg.VLM.APIKey,
		BaseURL:         cfg.VLM.BaseURL,
		SessionCapacity: cfg.Chat.SessionCapacity,
		SessionTTL:      cfg.Chat.SessionTTL,
	})

	// Setup router
	router := api.SetupRouter(api.RouterDeps{
		Ingest:   ingestService,
		Chat:     chatService,
		Artists:  artistRepo,
		Artworks: artworkRepo,
		Store:    objectStorage,
		Log:      appLog,
		Mode:     cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLog.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Fatal("Server forced to shutdown")
	}

	appLog.Info("Server exited")
}

func vlmTier(rank int, model string, cfg *config.VLMConfig) service.ModelTier {
	return service.ModelTier{
		Rank:  rank,
		Model: model,
		Generator: service.NewVLMService(&service.VLMConfig{
			Model:   model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}),
	}
}
