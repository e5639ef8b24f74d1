package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RatingStatus string

const (
	RatingPendingReview RatingStatus = "pending_review"
	RatingApproved      RatingStatus = "approved"
	RatingRejected      RatingStatus = "rejected"
	RatingFlagged       RatingStatus = "flagged"
)

func ParseRatingStatus(s string) (RatingStatus, error) {
	switch RatingStatus(s) {
	case RatingPendingReview, RatingApproved, RatingRejected, RatingFlagged:
		return RatingStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized rating status %q", s)
}

// Rating is a 1-5 review of a supplier. RaterSupplierID is nil for
// anonymous public reviews; ReviewerName/Email hold the display snapshot.
// Only approved rows count toward the public aggregate.
type Rating struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RaterSupplierID *uuid.UUID   `gorm:"type:uuid;index:idx_ratings_rater_rated" json:"rater_supplier_id,omitempty"`
	RatedSupplierID uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_ratings_rater_rated" json:"rated_supplier_id"`
	Score           int          `gorm:"not null" json:"score"`
	Comment         string       `gorm:"size:2000" json:"comment,omitempty"`
	ReviewerName    string       `gorm:"size:255" json:"reviewer_name,omitempty"`
	ReviewerEmail   string       `gorm:"size:255" json:"reviewer_email,omitempty"`
	IsApproved      bool         `gorm:"not null;default:false" json:"is_approved"`
	Status          RatingStatus `gorm:"not null;default:'pending_review';size:20;index" json:"status"`
	ModeratedBy     *uuid.UUID   `gorm:"type:uuid" json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time   `json:"moderated_at,omitempty"`
	ModerationNotes string       `gorm:"size:1000" json:"moderation_notes,omitempty"`
	FlaggedBy       *uuid.UUID   `gorm:"type:uuid" json:"flagged_by,omitempty"`
	FlaggedAt       *time.Time   `json:"flagged_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	RatedSupplier   Supplier     `gorm:"foreignKey:RatedSupplierID" json:"-"`
}
