package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/officekit/toolbox-api/docs"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/database"
	"github.com/officekit/toolbox-api/internal/http/handler"
	"github.com/officekit/toolbox-api/internal/http/middleware"
	"github.com/officekit/toolbox-api/internal/http/router"
	"github.com/officekit/toolbox-api/internal/jobs"
	"github.com/officekit/toolbox-api/internal/logger"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/officekit/toolbox-api/internal/storage"
	"go.uber.org/zap"
)

// shareCleanupTimeout bounds a single expired-share sweep
const shareCleanupTimeout = 5 * time.Minute

// @title Toolbox API
// @version 1.0
// @description Backing API for the office toolbox: tool registry, BMI calculator, photo cropper, text-to-speech export, file compressor, and file sharing
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@officekit.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "toolbox-api-staging.officekit.io"
	case "production":
		docs.SwaggerInfo.Host = "api.officekit.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Token manager for issuing and validating access tokens
	tokens, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	toolRepo := repository.NewToolRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	fileRepo := repository.NewSharedFileRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, tokens, log)
	toolService := service.NewToolService(toolRepo, bookmarkRepo, log)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, toolRepo, log)
	usageService := service.NewUsageService(usageRepo, toolRepo, log)
	calculatorService := service.NewCalculatorService(log)
	imageService := service.NewImageService(log)
	speechService := service.NewSpeechService(log)
	archiveService := service.NewArchiveService(log)
	fileService := service.NewFileService(fileRepo, fileStorage, cfg.App.BaseURL, cfg.Sharing.DefaultExpiry(), log)

	// Seed the built-in tool catalog so a fresh database lists the standard tools
	if err := toolService.EnsureSeedTools(ctx); err != nil {
		return fmt.Errorf("failed to seed tool catalog: %w", err)
	}

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, log)
	toolHandler := handler.NewToolHandler(toolService, log)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, log)
	usageHandler := handler.NewUsageHandler(usageService, log)
	bmiHandler := handler.NewBMIHandler(calculatorService, log)
	cropHandler := handler.NewCropHandler(imageService, log)
	speechHandler := handler.NewSpeechHandler(speechService, log)
	archiveHandler := handler.NewArchiveHandler(archiveService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		toolHandler,
		bookmarkHandler,
		usageHandler,
		bmiHandler,
		cropHandler,
		speechHandler,
		archiveHandler,
		fileHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Sharing.CleanupEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterShareCleanupJob(
			scheduler,
			fileService,
			log,
			cfg.Sharing.CleanupCron,
			shareCleanupTimeout,
		); err != nil {
			log.Error("Failed to register share cleanup job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with share cleanup job",
				zap.String("cron_expr", cfg.Sharing.CleanupCron),
			)
		}
	} else {
		log.Info("Share cleanup disabled",
			zap.Bool("cleanup_enabled", cfg.Sharing.CleanupEnabled),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
