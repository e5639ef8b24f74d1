package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/config"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/database"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/handlers"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/logging"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/routes"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Capability policy
	policy, err := authz.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		slog.Error("failed to load permissions policy", "path", cfg.PolicyPath, "error", err)
		os.Exit(1)
	}
	gate := authz.NewGate(policy)
	slog.Info("permissions policy loaded", "version", policy.Version)

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// File storage
	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to initialize file storage", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Services
	notifier := notify.NewLogNotifier()
	filter := services.NewContentFilter()
	settingsService := services.NewSettingsService(database.DB)
	documentService := services.NewDocumentService(database.DB, store, settingsService, notifier)
	ratingService := services.NewRatingService(database.DB, filter, settingsService, notifier)
	reportService := services.NewReportService(database.DB, filter, notifier)
	authService := services.NewAuthService(database.DB, cfg, documentService)

	if err := settingsService.SeedDefaults(); err != nil {
		slog.Error("failed to seed default settings", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, gate)
	healthHandler := handlers.NewHealthHandler()
	documentHandler := handlers.NewDocumentHandler(documentService, gate)
	ratingHandler := handlers.NewRatingHandler(ratingService, gate)
	reportHandler := handlers.NewReportHandler(reportService, gate)
	settingsHandler := handlers.NewSettingsHandler(settingsService, gate)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, documentHandler, ratingHandler, reportHandler, settingsHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
