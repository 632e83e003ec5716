package middleware

import (
	"mekong-backend/internal/navigation"
	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequirePage gates an API route group behind the page the client would need
// to reach it. The same allow-list drives client navigation and the API, so a
// business account cannot call a farmer-only endpoint directly either.
func RequirePage(page navigation.Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		role := GetUserRole(c)
		if role == "" {
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		}
		if !navigation.IsAllowed(role, page) {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}

// RequireRole restricts a route to specific roles (admin data ingest).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		role := GetUserRole(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return response.Forbidden(c, "User is Forbidden from performing this action")
	}
}
