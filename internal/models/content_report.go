package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportApproved  ReportStatus = "approved"
	ReportDismissed ReportStatus = "dismissed"
	ReportTakedown  ReportStatus = "takedown"
)

func ParseReportStatus(s string) (ReportStatus, error) {
	switch ReportStatus(s) {
	case ReportPending, ReportApproved, ReportDismissed, ReportTakedown:
		return ReportStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized report status %q", s)
}

// ContentReport is an abuse/policy report against a supplier or one of its
// sub-resources. Reporter identity is snapshotted at submit time since the
// reporter may have no stable account.
type ContentReport struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TargetSupplierID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"target_supplier_id"`
	ReporterSupplierID *uuid.UUID   `gorm:"type:uuid;index" json:"reporter_supplier_id,omitempty"`
	ReportedByName     string       `gorm:"size:255" json:"reported_by_name,omitempty"`
	ReportedByEmail    string       `gorm:"size:255" json:"reported_by_email,omitempty"`
	ReportType         string       `gorm:"not null;size:50" json:"report_type"`
	TargetType         string       `gorm:"size:50" json:"target_type,omitempty"`
	TargetID           string       `gorm:"size:255" json:"target_id,omitempty"`
	Status             ReportStatus `gorm:"not null;default:'pending';size:20;index" json:"status"`
	Reason             string       `gorm:"size:500" json:"reason,omitempty"`
	Details            string       `gorm:"size:2000" json:"details,omitempty"`
	HandledBy          *uuid.UUID   `gorm:"type:uuid" json:"handled_by,omitempty"`
	HandledAt          *time.Time   `json:"handled_at,omitempty"`
	ResolutionNotes    string       `gorm:"size:1000" json:"resolution_notes,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	TargetSupplier     Supplier     `gorm:"foreignKey:TargetSupplierID" json:"-"`
}
