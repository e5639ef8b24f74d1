package handlers

import (
	"strconv"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RatingHandler struct {
	ratings *services.RatingService
	gate    *authz.Gate
}

func NewRatingHandler(ratings *services.RatingService, gate *authz.Gate) *RatingHandler {
	return &RatingHandler{ratings: ratings, gate: gate}
}

// Create accepts a rating from an authenticated supplier or an anonymous
// public reviewer. Non-supplier callers go through the anonymous path.
func (h *RatingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	var rater *uuid.UUID
	if actor := middleware.GetActor(c); actor.Kind == authz.KindSupplier {
		id := actor.ID
		rater = &id
	}

	rating, err := h.ratings.Submit(rater, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// Aggregate returns the public average/count over approved ratings only.
func (h *RatingHandler) Aggregate(c *fiber.Ctx) error {
	supplierID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid supplier ID",
		})
	}

	agg, err := h.ratings.ApprovedAggregate(supplierID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(agg)
}

// List is the admin moderation queue view.
func (h *RatingHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionRatingView) {
		return nil
	}

	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	ratings, total, err := h.ratings.List(status, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ratings": ratings,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *RatingHandler) Approve(c *fiber.Ctx) error {
	return h.moderate(c, h.ratings.Approve)
}

func (h *RatingHandler) Reject(c *fiber.Ctx) error {
	return h.moderate(c, h.ratings.Reject)
}

func (h *RatingHandler) Flag(c *fiber.Ctx) error {
	return h.moderate(c, h.ratings.Flag)
}

// Restore moves a flagged rating back to pending_review or approved.
func (h *RatingHandler) Restore(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionRatingModerate) {
		return nil
	}

	ratingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid rating ID",
		})
	}

	var req dto.RestoreRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	rating, err := h.ratings.Restore(actor.ID, ratingID, models.RatingStatus(req.Target))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rating)
}

func (h *RatingHandler) moderate(c *fiber.Ctx, op func(adminID, ratingID uuid.UUID, notes string) (*models.Rating, error)) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionRatingModerate) {
		return nil
	}

	ratingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid rating ID",
		})
	}

	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	rating, err := op(actor.ID, ratingID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rating)
}
