package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Admin is a moderation-panel account. Non-superuser admins carry an
// explicit per-capability permission set; super_admin bypasses it.
type Admin struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:255" json:"name"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"not null;default:'admin';size:20" json:"role"`
	Permissions datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
