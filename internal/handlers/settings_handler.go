package handlers

import (
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/middleware"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings *services.SettingsService
	gate     *authz.Gate
}

func NewSettingsHandler(settings *services.SettingsService, gate *authz.Gate) *SettingsHandler {
	return &SettingsHandler{settings: settings, gate: gate}
}

// GetSettings returns every platform setting with typed values.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	all, err := h.settings.All()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(all)
}

// SetKey creates or updates a setting (admin only).
func (h *SettingsHandler) SetKey(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionSettingsManage) {
		return nil
	}

	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"` // string, bool, int, json
	}
	if err := c.BodyParser(&payload); err != nil {
		return badBody(c)
	}
	if payload.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Value is required",
		})
	}

	setting, err := h.settings.Set(key, payload.Value, payload.Type)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting updated successfully",
		"setting": setting,
	})
}

// DeleteKey removes a setting (admin only).
func (h *SettingsHandler) DeleteKey(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !allowed(c, h.gate, actor, authz.ActionSettingsManage) {
		return nil
	}

	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	if err := h.settings.Delete(key); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"error": false, "message": "Setting deleted successfully"})
}
