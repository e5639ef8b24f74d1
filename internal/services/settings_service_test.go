package services

import (
	"testing"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSeedDefaultsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	require.NoError(t, svc.SeedDefaults())
	require.NoError(t, svc.SeedDefaults())

	var count int64
	db.Model(&models.ModerationSetting{}).Count(&count)
	assert.EqualValues(t, len(defaultSettings), count)

	// Seeding never clobbers an admin override.
	_, err := svc.Set(SettingMaxUploadMB, "25", "int")
	require.NoError(t, err)
	require.NoError(t, svc.SeedDefaults())
	assert.EqualValues(t, 25*1024*1024, svc.MaxUploadBytes())
}

func TestSettingsAllConvertsTypes(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)
	require.NoError(t, svc.SeedDefaults())
	_, err := svc.Set("maintenance_mode", "true", "bool")
	require.NoError(t, err)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Equal(t, 10, all[SettingMaxUploadMB])
	assert.Equal(t, "pdf,jpg,jpeg,png", all[SettingAllowedFileTypes])
	assert.Equal(t, true, all["maintenance_mode"])
}

func TestSettingsSetAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	created, err := svc.Set("greeting", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "string", created.Type)

	updated, err := svc.Set("greeting", "salam", "string")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "salam", updated.Value)

	require.NoError(t, svc.Delete("greeting"))
	var count int64
	db.Model(&models.ModerationSetting{}).Where("key = ?", "greeting").Count(&count)
	assert.Zero(t, count)
}

func TestSettingsTypedAccessorFallbacks(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	// Unseeded database falls back to compiled-in defaults.
	assert.EqualValues(t, 10*1024*1024, svc.MaxUploadBytes())
	assert.Equal(t, []string{"pdf", "jpg", "jpeg", "png"}, svc.AllowedFileExts())
	assert.Equal(t, 2000, svc.RatingCommentMaxLen())

	_, err := svc.Set(SettingAllowedFileTypes, " PDF , png ,", "string")
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf", "png"}, svc.AllowedFileExts())

	// Garbage in the row falls back, not panics.
	_, err = svc.Set(SettingRatingCommentMaxLen, "not-a-number", "int")
	require.NoError(t, err)
	assert.Equal(t, 2000, svc.RatingCommentMaxLen())
}
