package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(s) {
	case DocumentPending, DocumentVerified, DocumentRejected:
		return DocumentStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized document status %q", s)
}

// Document is a supplier verification artifact. At most one document per
// supplier is active: uploading a new one supersedes and removes the old.
type Document struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SupplierID uuid.UUID      `gorm:"type:uuid;not null;index" json:"supplier_id"`
	FilePath   string         `gorm:"not null;size:500" json:"file_path"`
	FileName   string         `gorm:"size:255" json:"file_name"`
	MimeType   string         `gorm:"size:100" json:"mime_type"`
	SizeBytes  int64          `json:"size_bytes"`
	Status     DocumentStatus `gorm:"not null;default:'pending';size:20;index" json:"status"`
	Notes      string         `gorm:"size:1000" json:"notes,omitempty"`
	ReviewedBy *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Supplier   Supplier       `gorm:"foreignKey:SupplierID" json:"-"`
}
