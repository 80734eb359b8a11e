package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsteps/internal/config"
	"newsteps/internal/database"
	"newsteps/internal/handler"
	"newsteps/internal/notify"
	"newsteps/internal/repository"
	"newsteps/internal/router"
	"newsteps/internal/service"
	"newsteps/internal/settings"

	"github.com/rs/zerolog"
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
	logger.Info().Msg("starting newsteps API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Initialize repositories
	counterRepo := repository.NewCounterRepository(pool, logger)
	shoeRepo := repository.NewShoeRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	requestRepo := repository.NewRequestRepository(pool, logger)
	donationRepo := repository.NewDonationRepository(pool, logger)
	statusRepo := repository.NewStatusRepository(pool, logger)

	// Initialize settings provider
	provider, err := settings.NewProvider(ctx, settingsLoader(ctx, cfg.Settings, logger), cfg.Settings.LocalPath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	// Initialize notification sender
	var sender notify.Sender
	if cfg.SMTP.Enabled {
		sender = notify.NewSMTPSender(cfg.SMTP, logger)
	} else {
		sender = notify.NewLogSender(logger)
		logger.Info().Msg("SMTP disabled, confirmation emails will only be logged")
	}

	// Initialize services
	shoeService := service.NewShoeService(shoeRepo, donationRepo, counterRepo, logger)
	requestService := service.NewRequestService(requestRepo, shoeRepo, userRepo, counterRepo, statusRepo, provider, sender, logger)
	donationService := service.NewDonationService(donationRepo, counterRepo, statusRepo, sender, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Shoes:     handler.NewShoeHandler(shoeService, logger),
		Requests:  handler.NewRequestHandler(requestService, logger),
		Donations: handler.NewDonationHandler(donationService, logger),
		Settings:  handler.NewSettingsHandler(provider, logger),
	}, cfg.Auth.JWTSecret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// settingsLoader picks the settings source: S3 with local fallback, local
// only, or nil for built-in defaults.
func settingsLoader(ctx context.Context, cfg config.SettingsConfig, logger zerolog.Logger) settings.Loader {
	fileLoader := settings.NewFileLoader(logger)

	if cfg.S3Enabled {
		s3Loader, err := settings.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err == nil {
			return settings.NewFallbackLoader(s3Loader, fileLoader, cfg.S3Key, logger)
		}
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 settings loader, falling back to local file system only")
	}

	if cfg.LocalPath == "" {
		return nil
	}
	return fileLoader
}
