package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation 422 with field map, duplicate rating 422 with the existing row
// embedded, not-found 404, credential failures 401, everything else 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Error:   true,
			Message: "Validation failed",
			Errors:  ve.Fields,
		})
	}

	var de *services.DuplicateRatingError
	if errors.As(err, &de) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.DuplicateRatingResponse{
			Error:    true,
			Message:  de.Error(),
			Existing: de.Existing,
		})
	}

	switch {
	case errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrRatingNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrSupplierNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDocumentFinalized),
		errors.Is(err, services.ErrInvalidRestoreState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	slog.Error("handler failure", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

// allowed runs the authorization gate before any side effect. On denial it
// writes the 403 response and returns false; the handler must return
// immediately.
func allowed(c *fiber.Ctx, gate *authz.Gate, actor authz.Actor, action authz.Action) bool {
	if d := gate.Decide(actor, action); !d.Allowed {
		_ = c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: d.Reason,
		})
		return false
	}
	return true
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
