package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mekong-backend/internal/middleware"
	"mekong-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

func NewHandlers(s *Service) *Handlers {
	return &Handlers{Service: s}
}

func (h *Handlers) Summary(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	stats, err := h.Service.Summary(c.Context(), userID, middleware.GetUserRole(c))
	if err != nil {
		log.Error().Err(err).Msg("dashboard summary failed")
		return response.Error(c, "Could not load dashboard", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Dashboard retrieved", stats, nil)
}
