package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jolix/portal-api/docs"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/config"
	"github.com/jolix/portal-api/internal/database"
	"github.com/jolix/portal-api/internal/erp"
	"github.com/jolix/portal-api/internal/http/handler"
	"github.com/jolix/portal-api/internal/http/middleware"
	"github.com/jolix/portal-api/internal/http/router"
	"github.com/jolix/portal-api/internal/jobs"
	"github.com/jolix/portal-api/internal/logger"
	"github.com/jolix/portal-api/internal/repository"
	"github.com/jolix/portal-api/internal/service"
	"github.com/jolix/portal-api/internal/storage"
	"go.uber.org/zap"
)

// @title Jolix Portal API
// @version 1.0
// @description Client portal API for document lifecycle, signatures, and action queues
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@jolix.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Portal JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for token issuance
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
		docs.SwaggerInfo.Host = "portal-api-staging.jolix.io"
	case "production":
		docs.SwaggerInfo.Host = "portal-api.jolix.io"
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
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize accounting mirror connection (optional - for payment sync)
	// This connection is read-only and the app continues without it if not configured
	var erpClient *erp.Client
	if cfg.Accounting.Enabled {
		erpClient, err = erp.NewClient(&cfg.Accounting, log)
		if err != nil {
			// Log error but don't fail - the accounting mirror is optional
			log.Warn("Accounting mirror connection failed, continuing without it",
				zap.Error(err),
			)
		} else if erpClient != nil {
			log.Info("Accounting mirror connected successfully",
				zap.Int("max_open_conns", cfg.Accounting.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Accounting.QueryTimeout),
			)
		}
	} else {
		log.Info("Accounting mirror not configured, skipping")
	}

	// Initialize repositories
	workspaceRepo := repository.NewWorkspaceRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	contractRepo := repository.NewContractRepository(db)
	formRepo := repository.NewFormRepository(db)
	fileRepo := repository.NewFileRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	settingsRepo := repository.NewPortalSettingsRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize auth
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize services
	// Activity service first (other services record through it)
	activityService := service.NewActivityService(activityRepo, log)

	tokenService := service.NewTokenService(workspaceRepo, clientRepo, authMiddleware.Tokens(), log)
	projectService := service.NewProjectService(projectRepo, milestoneRepo, taskRepo, settingsRepo, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, settingsRepo, activityService, log)
	contractService := service.NewContractService(contractRepo, settingsRepo, activityService, log)
	formService := service.NewFormService(formRepo, settingsRepo, activityService, log)
	fileService := service.NewFileService(fileRepo, projectRepo, settingsRepo, activityService, fileStorage, log)
	messageService := service.NewMessageService(messageRepo, settingsRepo, activityService, log)
	bookingService := service.NewBookingService(bookingRepo, settingsRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, projectRepo, activityService, log)
	portalService := service.NewPortalService(
		workspaceRepo,
		clientRepo,
		projectRepo,
		invoiceRepo,
		contractRepo,
		formRepo,
		fileRepo,
		milestoneRepo,
		taskRepo,
		bookingRepo,
		messageRepo,
		settingsRepo,
		log,
	)
	accountingSyncService := service.NewAccountingSyncService(erpClient, invoiceRepo, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(tokenService, log)
	portalHandler := handler.NewPortalHandler(portalService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	contractHandler := handler.NewContractHandler(contractService, log)
	formHandler := handler.NewFormHandler(formService, log)
	fileHandler := handler.NewFileHandler(fileService, log)
	messageHandler := handler.NewMessageHandler(messageService, log)
	bookingHandler := handler.NewBookingHandler(bookingService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		portalHandler,
		projectHandler,
		invoiceHandler,
		contractHandler,
		formHandler,
		fileHandler,
		messageHandler,
		bookingHandler,
		settingsHandler,
		activityHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueSweepJob(
			scheduler,
			invoiceRepo,
			log,
			cfg.Jobs.OverdueSweepSchedule,
			cfg.Jobs.TimeoutDuration(),
		); err != nil {
			log.Error("Failed to register overdue sweep job", zap.Error(err))
		}

		if erpClient.IsEnabled() {
			if err := jobs.RegisterAccountingSyncJob(
				scheduler,
				accountingSyncService,
				log,
				cfg.Jobs.AccountingSyncSchedule,
				cfg.Jobs.TimeoutDuration(),
			); err != nil {
				log.Error("Failed to register accounting sync job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.JobNames()),
			zap.Duration("timeout", cfg.Jobs.TimeoutDuration()),
		)
	} else {
		log.Info("Background jobs disabled")
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

		// Close accounting mirror connection if initialized
		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing accounting mirror connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
