package handlers

import (
	"io"
	"strconv"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documents *services.DocumentService
	gate      *authz.Gate
}

func NewDocumentHandler(documents *services.DocumentService, gate *authz.Gate) *DocumentHandler {
	return &DocumentHandler{documents: documents, gate: gate}
}

func readUpload(c *fiber.Ctx) (string, []byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// Submit uploads a verification document for the calling supplier.
func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	name, data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A file upload is required",
		})
	}

	doc, err := h.documents.Submit(actor.ID, name, data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ListMine returns the calling supplier's documents.
func (h *DocumentHandler) ListMine(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	docs, err := h.documents.ListForSupplier(actor.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// Resubmit replaces the file of a still-pending document.
func (h *DocumentHandler) Resubmit(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	name, data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A file upload is required",
		})
	}

	doc, err := h.documents.Resubmit(actor.ID, docID, name, data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(doc)
}

// Destroy removes an unreviewed document.
func (h *DocumentHandler) Destroy(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	if err := h.documents.Destroy(actor.ID, docID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Document deleted successfully"})
}

// List is the admin view over all documents.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionDocumentView) {
		return nil
	}

	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	docs, total, err := h.documents.List(status, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.documents.Approve)
}

func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.documents.Reject)
}

func (h *DocumentHandler) RequestResubmission(c *fiber.Ctx) error {
	return h.review(c, h.documents.RequestResubmission)
}

func (h *DocumentHandler) review(c *fiber.Ctx, op func(adminID, docID uuid.UUID, notes string) (*models.Document, error)) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionDocumentModerate) {
		return nil
	}

	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	doc, err := op(actor.ID, docID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(doc)
}
