package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrInvalidRestoreState = errors.New("restore target must be pending_review or approved")
)

// RatingService drives the review lifecycle. Submission is open to
// authenticated suppliers and anonymous public reviewers; everything enters
// the moderation queue unapproved and only approved rows reach the public
// aggregate.
type RatingService struct {
	db       *gorm.DB
	filter   *ContentFilter
	settings *SettingsService
	notifier notify.Notifier
}

func NewRatingService(db *gorm.DB, filter *ContentFilter, settings *SettingsService, notifier notify.Notifier) *RatingService {
	return &RatingService{db: db, filter: filter, settings: settings, notifier: notifier}
}

// Submit creates a rating in pending_review (or approved directly when the
// auto_publish_ratings setting is on). Duplicate policy is strict reject: a
// second rating by the same rater on the same supplier returns a
// DuplicateRatingError embedding the existing row, never an upsert.
func (s *RatingService) Submit(rater *uuid.UUID, req *dto.CreateRatingRequest) (*models.Rating, error) {
	fields := map[string]string{}
	if req.Score < 1 || req.Score > 5 {
		fields["score"] = "score must be between 1 and 5"
	}
	if rater != nil && *rater == req.RatedSupplierID {
		fields["rated_supplier_id"] = "a supplier cannot rate itself"
	}
	if rater == nil && req.ReviewerName == "" {
		fields["reviewer_name"] = "reviewer name is required for public reviews"
	}
	if max := s.settings.RatingCommentMaxLen(); len(req.Comment) > max {
		fields["comment"] = fmt.Sprintf("comment exceeds %d characters", max)
	}
	if ok, reason := s.filter.Check(req.Comment); !ok {
		fields["comment"] = s.filter.Message(reason)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var rated models.Supplier
	if err := s.db.First(&rated, "id = ?", req.RatedSupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	if rater != nil {
		var existing models.Rating
		err := s.db.Where("rater_supplier_id = ? AND rated_supplier_id = ?", *rater, req.RatedSupplierID).
			First(&existing).Error
		if err == nil {
			return nil, &DuplicateRatingError{Existing: &existing}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for existing rating: %w", err)
		}
	}

	rating := models.Rating{
		ID:              uuid.New(),
		RaterSupplierID: rater,
		RatedSupplierID: req.RatedSupplierID,
		Score:           req.Score,
		Comment:         req.Comment,
		ReviewerName:    req.ReviewerName,
		ReviewerEmail:   req.ReviewerEmail,
		IsApproved:      false,
		Status:          models.RatingPendingReview,
	}
	if s.settings.AutoPublishRatings() {
		rating.IsApproved = true
		rating.Status = models.RatingApproved
	}
	if err := s.db.Create(&rating).Error; err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return &rating, nil
}

// Approve publishes the rating and clears any flag stamp.
func (s *RatingService) Approve(adminID, ratingID uuid.UUID, notes string) (*models.Rating, error) {
	return s.moderate(adminID, ratingID, func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"is_approved":      true,
			"status":           models.RatingApproved,
			"moderated_by":     adminID,
			"moderated_at":     now,
			"moderation_notes": notes,
			"flagged_by":       nil,
			"flagged_at":       nil,
		}
	})
}

func (s *RatingService) Reject(adminID, ratingID uuid.UUID, notes string) (*models.Rating, error) {
	return s.moderate(adminID, ratingID, func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"is_approved":      false,
			"status":           models.RatingRejected,
			"moderated_by":     adminID,
			"moderated_at":     now,
			"moderation_notes": notes,
		}
	})
}

// Flag parks the rating for closer review, recording who flagged it.
func (s *RatingService) Flag(adminID, ratingID uuid.UUID, notes string) (*models.Rating, error) {
	return s.moderate(adminID, ratingID, func(now time.Time) map[string]interface{} {
		updates := map[string]interface{}{
			"status":     models.RatingFlagged,
			"flagged_by": adminID,
			"flagged_at": now,
		}
		if notes != "" {
			updates["moderation_notes"] = notes
		}
		return updates
	})
}

// Restore moves a flagged rating back to pending_review or approved,
// clearing the flag stamp either way.
func (s *RatingService) Restore(adminID, ratingID uuid.UUID, target models.RatingStatus) (*models.Rating, error) {
	switch target {
	case models.RatingPendingReview:
		return s.moderate(adminID, ratingID, func(now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"status":       models.RatingPendingReview,
				"is_approved":  false,
				"moderated_by": nil,
				"moderated_at": nil,
				"flagged_by":   nil,
				"flagged_at":   nil,
			}
		})
	case models.RatingApproved:
		return s.moderate(adminID, ratingID, func(now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"status":       models.RatingApproved,
				"is_approved":  true,
				"moderated_by": adminID,
				"moderated_at": now,
				"flagged_by":   nil,
				"flagged_at":   nil,
			}
		})
	}
	return nil, ErrInvalidRestoreState
}

func (s *RatingService) moderate(adminID, ratingID uuid.UUID, build func(now time.Time) map[string]interface{}) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rating, "id = ?", ratingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRatingNotFound
			}
			return err
		}
		if _, err := models.ParseRatingStatus(string(rating.Status)); err != nil {
			return err
		}

		updates := build(time.Now().UTC())
		if err := tx.Model(&models.Rating{}).Where("id = ?", ratingID).Updates(updates).Error; err != nil {
			return err
		}
		// Re-read into a zeroed struct: scanning NULL columns does not clear
		// pointer fields that are already populated.
		rating = models.Rating{}
		return tx.First(&rating, "id = ?", ratingID).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifier.RatingModerated(&rating)
	return &rating, nil
}

// ApprovedAggregate computes the public average and count over approved rows
// only; pending, rejected and flagged rows never contribute.
func (s *RatingService) ApprovedAggregate(supplierID uuid.UUID) (*dto.RatingAggregateResponse, error) {
	var agg struct {
		Average float64
		Count   int64
	}
	err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("rated_supplier_id = ? AND status = ? AND is_approved = ?",
			supplierID, models.RatingApproved, true).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute aggregate: %w", err)
	}
	return &dto.RatingAggregateResponse{
		SupplierID: supplierID,
		Average:    agg.Average,
		Count:      agg.Count,
	}, nil
}

// List returns ratings for the admin panel, optionally filtered by status.
func (s *RatingService) List(status string, limit, offset int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	query := s.db.Model(&models.Rating{})
	if status != "" {
		parsed, err := models.ParseRatingStatus(status)
		if err != nil {
			return nil, 0, invalid("status", err.Error())
		}
		query = query.Where("status = ?", parsed)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ratings).Error; err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}
