package middleware

import (
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired rejects any actor that is not an admin account. Finer
// capability checks happen per action in the handlers via the authz gate.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetActor(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
