package services

import (
	"fmt"
	"testing"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/storage"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache memory database so every connection in
	// the pool sees the same data, but tests stay isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Supplier{},
		&models.Admin{},
		&models.Document{},
		&models.Rating{},
		&models.ContentReport{},
		&models.RefreshToken{},
		&models.ModerationSetting{},
	))
	return db
}

func newTestStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func createSupplier(t *testing.T, db *gorm.DB, status models.SupplierStatus) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		ID:       uuid.New(),
		Name:     "Test Supplier",
		Email:    uuid.New().String() + "@example.com",
		Password: "$2a$10$notarealhash",
		Status:   status,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func testNotifier() notify.Notifier {
	return notify.NewLogNotifier()
}
