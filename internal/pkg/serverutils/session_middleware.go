package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionIdLocal = "session_id"

// SessionParamMiddleware parses the :id route parameter and stores it in Locals.
func SessionParamMiddleware(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	ctx.Locals(SessionIdLocal, sessionId)
	return ctx.Next()
}

func SessionId(ctx *fiber.Ctx) uuid.UUID {
	sessionId, _ := ctx.Locals(SessionIdLocal).(uuid.UUID)
	return sessionId
}
