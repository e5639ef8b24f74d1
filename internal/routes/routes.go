package routes

import (
	"time"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/config"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/handlers"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	documentHandler *handlers.DocumentHandler,
	ratingHandler *handlers.RatingHandler,
	reportHandler *handlers.ReportHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/settings", settingsHandler.GetSettings)

	// Public auth endpoints with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/suppliers/register", authHandler.Register)

	jwtProtected := middleware.JWTProtected(cfg)
	resolveActor := middleware.ResolveActor(db)

	api.Post("/auth/logout", jwtProtected, resolveActor, authHandler.Logout)
	api.Delete("/auth/account", jwtProtected, resolveActor, authHandler.DeleteAccount)
	api.Put("/profile", jwtProtected, resolveActor, authHandler.UpdateProfile)

	// Public submission endpoints: anonymous allowed, supplier identity
	// attached when a valid bearer token is presented.
	api.Post("/ratings", middleware.OptionalActor(db, cfg), ratingHandler.Create)
	api.Post("/content-reports", middleware.OptionalActor(db, cfg), reportHandler.Create)
	api.Get("/suppliers/:id/rating", ratingHandler.Aggregate)

	// Supplier document endpoints
	docs := api.Group("/documents", jwtProtected, resolveActor)
	docs.Post("/", documentHandler.Submit)
	docs.Get("/", documentHandler.ListMine)
	docs.Put("/:id", documentHandler.Resubmit)
	docs.Delete("/:id", documentHandler.Destroy)

	// Admin moderation panel
	admin := api.Group("/admin", jwtProtected, resolveActor, middleware.AdminRequired())
	admin.Get("/documents", documentHandler.List)
	admin.Post("/documents/:id/approve", documentHandler.Approve)
	admin.Post("/documents/:id/reject", documentHandler.Reject)
	admin.Post("/documents/:id/request-resubmission", documentHandler.RequestResubmission)

	admin.Get("/ratings", ratingHandler.List)
	admin.Post("/ratings/:id/approve", ratingHandler.Approve)
	admin.Post("/ratings/:id/reject", ratingHandler.Reject)
	admin.Post("/ratings/:id/flag", ratingHandler.Flag)
	admin.Post("/ratings/:id/restore", ratingHandler.Restore)

	admin.Get("/content-reports", reportHandler.List)
	admin.Post("/content-reports/:id/approve", reportHandler.Approve)
	admin.Post("/content-reports/:id/dismiss", reportHandler.Dismiss)
	admin.Post("/content-reports/:id/takedown", reportHandler.Takedown)
	admin.Patch("/content-reports/:id/status", reportHandler.UpdateStatus)

	admin.Put("/settings/:key", settingsHandler.SetKey)
	admin.Delete("/settings/:key", settingsHandler.DeleteKey)
}
