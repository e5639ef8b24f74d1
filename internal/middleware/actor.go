package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/authz"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/config"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/dto"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/models"
	"github.com/ahmedkamalyoussef/Suppliers.sa-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const actorKey = "actor"

// ResolveActor turns the verified JWT in context into an authz.Actor backed
// by the current DB row. Runs after JWTProtected.
func ResolveActor(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		actor, err := actorFromClaims(db, claims)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// OptionalActor resolves a bearer token when one is presented but lets the
// request through as anonymous when the header is absent. Used on public
// submission endpoints that accept both suppliers and anonymous callers.
func OptionalActor(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			c.Locals(actorKey, authz.AnonymousActor())
			return c.Next()
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}
		actor, err := actorFromClaims(db, claims)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

func actorFromClaims(db *gorm.DB, claims jwt.MapClaims) (authz.Actor, error) {
	sub, _ := claims["sub"].(string)
	typ, _ := claims["typ"].(string)

	id, err := uuid.Parse(sub)
	if err != nil {
		return authz.Actor{}, errors.New("missing or invalid sub claim")
	}

	switch typ {
	case services.ActorTypeSupplier:
		var supplier models.Supplier
		if err := db.First(&supplier, "id = ?", id).Error; err != nil {
			return authz.Actor{}, errors.New("supplier not found")
		}
		return authz.SupplierActor(supplier.ID), nil
	case services.ActorTypeAdmin:
		var admin models.Admin
		if err := db.First(&admin, "id = ?", id).Error; err != nil {
			return authz.Actor{}, errors.New("admin not found")
		}
		perms := map[string]bool{}
		if len(admin.Permissions) > 0 {
			if err := json.Unmarshal(admin.Permissions, &perms); err != nil {
				return authz.Actor{}, errors.New("malformed permission set")
			}
		}
		return authz.AdminActor(admin.ID, admin.Role, perms), nil
	}
	return authz.Actor{}, errors.New("unknown actor type")
}

// GetActor returns the resolved actor for the request, anonymous when
// nothing resolved.
func GetActor(c *fiber.Ctx) authz.Actor {
	if actor, ok := c.Locals(actorKey).(authz.Actor); ok {
		return actor
	}
	return authz.AnonymousActor()
}
