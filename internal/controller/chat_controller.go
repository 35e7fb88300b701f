package controller

import (
	"github.com/gofiber/fiber/v2"

	"plantpal-be/internal/dto"
	"plantpal-be/internal/pkg/serverutils"
	"plantpal-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetTranscript(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.ISessionService
}

func NewChatController(service service.ISessionService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Get("/:id/chat", serverutils.SessionParamMiddleware, c.GetTranscript)
	h.Post("/:id/chat", serverutils.SessionParamMiddleware, c.SendChat)
}

func (c *chatController) GetTranscript(ctx *fiber.Ctx) error {
	res, err := c.service.Transcript(ctx.UserContext(), serverutils.SessionId(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat transcript", res))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), serverutils.SessionId(ctx), req.Message)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}
