package dto

import (
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/google/uuid"
)

// ReviewRequest is the shared admin payload for document and rating
// moderation actions.
type ReviewRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RestoreRatingRequest struct {
	Target string `json:"target"` // pending_review or approved
	Notes  string `json:"notes,omitempty"`
}

type CreateRatingRequest struct {
	RatedSupplierID uuid.UUID `json:"rated_supplier_id"`
	Score           int       `json:"score"`
	Comment         string    `json:"comment,omitempty"`
	ReviewerName    string    `json:"reviewer_name,omitempty"`
	ReviewerEmail   string    `json:"reviewer_email,omitempty"`
}

type RatingAggregateResponse struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	Average    float64   `json:"average"`
	Count      int64     `json:"count"`
}

// DuplicateRatingResponse embeds the conflicting row so the client can
// reconcile instead of guessing.
type DuplicateRatingResponse struct {
	Error    bool           `json:"error"`
	Message  string         `json:"message"`
	Existing *models.Rating `json:"existing"`
}

type CreateReportRequest struct {
	TargetSupplierID uuid.UUID `json:"target_supplier_id"`
	ReportType       string    `json:"report_type"`
	TargetType       string    `json:"target_type,omitempty"`
	TargetID         string    `json:"target_id,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	Details          string    `json:"details,omitempty"`
	ReportedByName   string    `json:"reported_by_name,omitempty"`
	ReportedByEmail  string    `json:"reported_by_email,omitempty"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}
