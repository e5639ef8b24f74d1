package handlers

import (
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *services.AuthService
	gate *authz.Gate
}

func NewAuthHandler(auth *services.AuthService, gate *authz.Gate) *AuthHandler {
	return &AuthHandler{auth: auth, gate: gate}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.auth.RegisterSupplier(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.auth.Login(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.auth.Refresh(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := h.auth.Logout(&req); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// UpdateProfile is available to any authenticated supplier via the
// self-service carve-out in the gate.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionOwnProfileUpdate) {
		return nil
	}
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	supplier, err := h.auth.UpdateProfile(actor.ID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(supplier)
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Kind != authz.KindSupplier {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Supplier account required",
		})
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := h.auth.DeleteAccount(actor.ID, req.Password); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
