package services

import (
	"strings"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
)

// ValidationError carries field-keyed messages; handlers surface it as 422.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DuplicateRatingError is returned when a rater already has a rating on the
// same supplier. The existing row is embedded for client reconciliation.
type DuplicateRatingError struct {
	Existing *models.Rating
}

func (e *DuplicateRatingError) Error() string {
	return "rating already submitted for this supplier"
}
