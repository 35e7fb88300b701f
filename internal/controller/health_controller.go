package controller

import (
	"github.com/gofiber/fiber/v2"

	"plantpal-be/internal/dto"
	"plantpal-be/internal/pkg/serverutils"
)

// SessionCounter is satisfied by memory.SessionRepository.
type SessionCounter interface {
	Count() int
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	tiers    dto.TierAvailability
	sessions SessionCounter
}

func NewHealthController(tiers dto.TierAvailability, sessions SessionCounter) IHealthController {
	return &healthController{tiers: tiers, sessions: sessions}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{
		Status:   "ok",
		Tiers:    c.tiers,
		Sessions: c.sessions.Count(),
	}))
}
