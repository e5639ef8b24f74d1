package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRatingApp(t *testing.T, actor authz.Actor) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Supplier{}, &models.Rating{}, &models.ModerationSetting{},
	))

	settings := services.NewSettingsService(db)
	require.NoError(t, settings.SeedDefaults())
	svc := services.NewRatingService(db, services.NewContentFilter(), settings, notify.NewLogNotifier())
	handler := NewRatingHandler(svc, authz.NewGate(authz.DefaultPolicy()))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("actor", actor)
		return c.Next()
	})
	app.Put("/admin/ratings/:id/flag", handler.Flag)
	app.Get("/admin/ratings", handler.List)
	return app, db
}

func createRating(t *testing.T, db *gorm.DB) *models.Rating {
	t.Helper()
	supplier := &models.Supplier{
		ID:       uuid.New(),
		Name:     "Rated Co",
		Email:    uuid.New().String() + "@example.com",
		Password: "x",
		Status:   models.SupplierActive,
	}
	require.NoError(t, db.Create(supplier).Error)
	rating := &models.Rating{
		ID:              uuid.New(),
		RatedSupplierID: supplier.ID,
		Score:           2,
		ReviewerName:    "Buyer",
		Status:          models.RatingPendingReview,
	}
	require.NoError(t, db.Create(rating).Error)
	return rating
}

func TestRatingFlagRequiresSuperviseCapability(t *testing.T) {
	admin := authz.AdminActor(uuid.New(), models.RoleAdmin, map[string]bool{
		authz.CapContentView: true,
	})
	app, db := newRatingApp(t, admin)
	rating := createRating(t, db)

	req := httptest.NewRequest("PUT", "/admin/ratings/"+rating.ID.String()+"/flag", bytes.NewReader(nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "content_management_supervise")

	// The row stays untouched after the denial.
	var reloaded models.Rating
	require.NoError(t, db.First(&reloaded, "id = ?", rating.ID).Error)
	assert.Equal(t, models.RatingPendingReview, reloaded.Status)
}

func TestRatingFlagAllowedWithCapability(t *testing.T) {
	admin := authz.AdminActor(uuid.New(), models.RoleAdmin, map[string]bool{
		authz.CapContentSupervise: true,
	})
	app, db := newRatingApp(t, admin)
	rating := createRating(t, db)

	body, _ := json.Marshal(map[string]string{"notes": "spot check"})
	req := httptest.NewRequest("PUT", "/admin/ratings/"+rating.ID.String()+"/flag", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Rating
	require.NoError(t, db.First(&reloaded, "id = ?", rating.ID).Error)
	assert.Equal(t, models.RatingFlagged, reloaded.Status)
	require.NotNil(t, reloaded.FlaggedBy)
	assert.Equal(t, admin.ID, *reloaded.FlaggedBy)
}

func TestRatingListDeniedForSupplier(t *testing.T) {
	app, _ := newRatingApp(t, authz.SupplierActor(uuid.New()))

	req := httptest.NewRequest("GET", "/admin/ratings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
