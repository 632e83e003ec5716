package notifications

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"

	"mekong-backend/internal/middleware"
	"mekong-backend/internal/models"
)

// Hub fans persisted notifications out to the owner's open websocket
// sessions. Delivery is best effort; the database copy is the record.
type Hub struct {
	m *melody.Melody
}

func NewHub() *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 64 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		uid, _ := s.Get("user_id")
		log.Debug().Interface("user_id", uid).Msg("notification socket closed")
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warn().Err(err).Msg("notification socket error")
	})

	return &Hub{m: m}
}

// HandleWS upgrades the request and tags the socket with the session user.
// Requires the auth middleware to have run.
func (h *Hub) HandleWS(c *fiber.Ctx) error {
	uid := middleware.GetUserID(c)
	if uid == "" {
		return fiber.ErrUnauthorized
	}
	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.m.HandleRequestWithKeys(w, r, map[string]interface{}{"user_id": uid}); err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
		}
	})(c)
}

// Push sends one notification to every socket belonging to its user.
func (h *Hub) Push(n *models.Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("marshal notification")
		return
	}
	uid := n.UserID.String()
	if err := h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := s.Get("user_id")
		return ok && id == uid
	}); err != nil {
		log.Warn().Err(err).Str("user_id", uid).Msg("broadcast failed")
	}
}

func (h *Hub) Close() error {
	return h.m.Close()
}
