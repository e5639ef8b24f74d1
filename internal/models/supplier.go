package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierStatus string

const (
	SupplierPending   SupplierStatus = "pending"
	SupplierActive    SupplierStatus = "active"
	SupplierSuspended SupplierStatus = "suspended"
)

// ParseSupplierStatus fails loudly on values that are not part of the enum,
// so a bad stored value never falls through a transition silently.
func ParseSupplierStatus(s string) (SupplierStatus, error) {
	switch SupplierStatus(s) {
	case SupplierPending, SupplierActive, SupplierSuspended:
		return SupplierStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized supplier status %q", s)
}

type Supplier struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Phone     string         `gorm:"size:30" json:"phone,omitempty"`
	Status    SupplierStatus `gorm:"not null;default:'pending';size:20" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
