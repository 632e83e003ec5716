package leaderboard

import (
	"strconv"

	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// TopProjects GET /api/v1/leaderboard?limit=10
func (h *Handlers) TopProjects(c *fiber.Ctx) error {
	limit := DefaultLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return response.Error(c, "Invalid limit", 400, nil)
		}
		limit = n
	}
	entries, err := h.Service.TopProjects(c.Context(), limit)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Leaderboard fetched successfully", entries, fiber.Map{
		"count": len(entries),
	})
}
