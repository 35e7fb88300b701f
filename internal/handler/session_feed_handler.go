package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"plantpal-be/internal/pkg/logger"
	"plantpal-be/internal/pkg/serverutils"
	internalWS "plantpal-be/internal/websocket"
)

// SessionLookup reports whether a session is live.
type SessionLookup interface {
	Exists(sessionId uuid.UUID) bool
}

// SessionFeedHandler streams a session's events to websocket clients.
type SessionFeedHandler struct {
	sessions SessionLookup
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewSessionFeedHandler(sessions SessionLookup, hub *internalWS.Hub, log logger.ILogger) *SessionFeedHandler {
	return &SessionFeedHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (h *SessionFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/session/v1/:id/ws", serverutils.SessionParamMiddleware, h.ServeWs)
}

// ServeWs upgrades the request and attaches it to the hub for the session in the path.
func (h *SessionFeedHandler) ServeWs(c *fiber.Ctx) error {
	sessionId := serverutils.SessionId(c)
	if !h.sessions.Exists(sessionId) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info(logger.ModuleHub, "Starting session feed", map[string]interface{}{"session_id": sessionId})
			internalWS.ServeWs(h.hub, conn, sessionId)
			h.logger.Info(logger.ModuleHub, "Session feed ended", map[string]interface{}{"session_id": sessionId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
