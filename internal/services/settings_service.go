package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"gorm.io/gorm"
)

const (
	SettingMaxUploadMB         = "max_upload_mb"
	SettingAllowedFileTypes    = "allowed_file_types"
	SettingRatingCommentMaxLen = "rating_comment_max_len"
	SettingAutoPublishRatings  = "auto_publish_ratings"
)

var defaultSettings = []models.ModerationSetting{
	{Key: SettingMaxUploadMB, Value: "10", Type: "int"},
	{Key: SettingAllowedFileTypes, Value: "pdf,jpg,jpeg,png", Type: "string"},
	{Key: SettingRatingCommentMaxLen, Value: "2000", Type: "int"},
	{Key: SettingAutoPublishRatings, Value: "false", Type: "bool"},
}

// SettingsService exposes admin-tunable platform values backed by the
// moderation_settings table, with compiled-in defaults seeded at boot.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) SeedDefaults() error {
	for _, def := range defaultSettings {
		var existing models.ModerationSetting
		err := s.db.Where("key = ?", def.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to query setting %q: %w", def.Key, err)
		}
		if err := s.db.Create(&def).Error; err != nil {
			return fmt.Errorf("failed to seed setting %q: %w", def.Key, err)
		}
	}
	return nil
}

// All returns every setting with its value converted per declared type.
func (s *SettingsService) All() (map[string]interface{}, error) {
	var settings []models.ModerationSetting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(settings))
	for _, setting := range settings {
		var value interface{}
		switch setting.Type {
		case "bool":
			value, _ = strconv.ParseBool(setting.Value)
		case "int":
			value, _ = strconv.Atoi(setting.Value)
		case "json":
			json.Unmarshal([]byte(setting.Value), &value)
		default:
			value = setting.Value
		}
		result[setting.Key] = value
	}
	return result, nil
}

func (s *SettingsService) Set(key, value, valueType string) (*models.ModerationSetting, error) {
	if valueType == "" {
		valueType = "string"
	}

	var setting models.ModerationSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = models.ModerationSetting{Key: key, Value: value, Type: valueType}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, fmt.Errorf("failed to create setting: %w", err)
		}
		return &setting, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query setting: %w", err)
	}

	setting.Value = value
	setting.Type = valueType
	if err := s.db.Save(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}
	return &setting, nil
}

func (s *SettingsService) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&models.ModerationSetting{}).Error
}

func (s *SettingsService) intValue(key string, fallback int64) int64 {
	var setting models.ModerationSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	n, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// MaxUploadBytes is the document upload ceiling.
func (s *SettingsService) MaxUploadBytes() int64 {
	return s.intValue(SettingMaxUploadMB, 10) * 1024 * 1024
}

// AllowedFileExts lists accepted document extensions, lowercased, no dots.
func (s *SettingsService) AllowedFileExts() []string {
	var setting models.ModerationSetting
	raw := "pdf,jpg,jpeg,png"
	if err := s.db.Where("key = ?", SettingAllowedFileTypes).First(&setting).Error; err == nil && setting.Value != "" {
		raw = setting.Value
	}
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			exts = append(exts, trimmed)
		}
	}
	return exts
}

func (s *SettingsService) RatingCommentMaxLen() int {
	return int(s.intValue(SettingRatingCommentMaxLen, 2000))
}

// AutoPublishRatings skips the moderation queue for new ratings when enabled.
func (s *SettingsService) AutoPublishRatings() bool {
	var setting models.ModerationSetting
	if err := s.db.Where("key = ?", SettingAutoPublishRatings).First(&setting).Error; err != nil {
		return false
	}
	v, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return false
	}
	return v
}
