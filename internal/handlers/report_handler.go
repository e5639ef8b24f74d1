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

type ReportHandler struct {
	reports *services.ReportService
	gate    *authz.Gate
}

func NewReportHandler(reports *services.ReportService, gate *authz.Gate) *ReportHandler {
	return &ReportHandler{reports: reports, gate: gate}
}

// Create files a report from a supplier or an anonymous submitter.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	var reporter *uuid.UUID
	if actor := middleware.GetActor(c); actor.Kind == authz.KindSupplier {
		id := actor.ID
		reporter = &id
	}

	report, err := h.reports.Submit(reporter, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// List is the admin queue view over content reports.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionReportView) {
		return nil
	}

	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.reports.List(status, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *ReportHandler) Approve(c *fiber.Ctx) error {
	return h.handle(c, h.reports.Approve)
}

func (h *ReportHandler) Dismiss(c *fiber.Ctx) error {
	return h.handle(c, h.reports.Dismiss)
}

func (h *ReportHandler) Takedown(c *fiber.Ctx) error {
	return h.handle(c, h.reports.Takedown)
}

// UpdateStatus is the enum-driven variant for clients preferring a single
// endpoint over the three named actions.
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionReportModerate) {
		return nil
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reports.UpdateStatus(actor.ID, reportID, req.Status, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) handle(c *fiber.Ctx, op func(adminID, reportID uuid.UUID, notes string) (*models.ContentReport, error)) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionReportModerate) {
		return nil
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	report, err := op(actor.ID, reportID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}
