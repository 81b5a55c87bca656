package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendora/internal/config"
	"trendora/internal/crypto"
	"trendora/internal/database"
	"trendora/internal/events"
	"trendora/internal/handler"
	"trendora/internal/repository"
	"trendora/internal/router"
	"trendora/internal/service"
	"trendora/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting trendora API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	lookupRepo := repository.NewLookupRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)
	returnRepo := repository.NewReturnRepository(pool, logger)

	// Initialize card-number cipher
	cardCipher, err := crypto.NewCardCipherFromBase64(cfg.Card.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize card cipher: %w", err)
	}

	// Initialize order event publisher
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Kafka event publisher initialised")
	} else {
		publisher = events.NopPublisher{}
		logger.Info().Msg("order events disabled (Kafka disabled)")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize order artifact store with no-op fallback
	var artifacts storage.ArtifactStore
	if cfg.S3.Enabled {
		artifacts, err = storage.NewS3ArtifactStore(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 artifact store, artifact cleanup disabled")
			artifacts = storage.NopArtifactStore{}
		}
	} else {
		artifacts = storage.NopArtifactStore{}
		logger.Info().Msg("order artifact cleanup disabled (S3 disabled)")
	}

	// Initialize services
	checkoutService := service.NewCheckoutService(orderRepo, paymentRepo, productRepo, cartRepo, lookupRepo, cardCipher, publisher, logger)
	orderService := service.NewOrderService(orderRepo, paymentRepo, lookupRepo, artifacts, publisher, logger)
	returnService := service.NewReturnService(returnRepo, orderRepo, productRepo, lookupRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(checkoutService, orderService, logger)
	returnHandler := handler.NewReturnHandler(returnService, logger)

	// Initialize router
	mux := router.New(orderHandler, returnHandler, cfg.Auth.JWTSecret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
