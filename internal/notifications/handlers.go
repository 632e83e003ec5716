package notifications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mekong-backend/internal/middleware"
	"mekong-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
	Hub     *Hub
}

func NewHandlers(s *Service, hub *Hub) *Handlers {
	return &Handlers{Service: s, Hub: hub}
}

func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	items, err := h.Service.List(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("list notifications failed")
		return response.Error(c, "Could not load notifications", fiber.StatusInternalServerError, nil)
	}
	unread, err := h.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("unread count failed")
		return response.Error(c, "Could not load notifications", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notifications retrieved", items, fiber.Map{
		"count":  len(items),
		"unread": unread,
	})
}

func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	unread, err := h.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("unread count failed")
		return response.Error(c, "Could not load unread count", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Unread count retrieved", fiber.Map{"unread": unread}, nil)
}

func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid notification id", fiber.StatusBadRequest, nil)
	}
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, userID); err != nil {
		if err == ErrNotificationNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("mark read failed")
		return response.Error(c, "Could not update notification", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}

func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	updated, err := h.Service.MarkAllRead(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("mark all read failed")
		return response.Error(c, "Could not update notifications", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notifications marked as read", nil, fiber.Map{"updated": updated})
}

func (h *Handlers) Delete(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid notification id", fiber.StatusBadRequest, nil)
	}
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.Delete(c.Context(), notificationID, userID); err != nil {
		if err == ErrNotificationNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("delete notification failed")
		return response.Error(c, "Could not delete notification", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notification deleted", nil, nil)
}

// Stream upgrades to a websocket scoped to the session user.
func (h *Handlers) Stream(c *fiber.Ctx) error {
	return h.Hub.HandleWS(c)
}
