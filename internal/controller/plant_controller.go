package controller

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"plantpal-be/internal/entity"
	"plantpal-be/internal/pkg/serverutils"
	"plantpal-be/internal/service"
)

type IPlantController interface {
	RegisterRoutes(r fiber.Router)
	Identify(ctx *fiber.Ctx) error
}

type plantController struct {
	service       service.ISessionService
	maxImageBytes int
}

func NewPlantController(service service.ISessionService, maxImageBytes int) IPlantController {
	return &plantController{service: service, maxImageBytes: maxImageBytes}
}

func (c *plantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("/:id/identify", serverutils.SessionParamMiddleware, c.Identify)
}

func (c *plantController) Identify(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Form file \"image\" is required")
	}
	if fileHeader.Size > int64(c.maxImageBytes) {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Image exceeds %d bytes", c.maxImageBytes))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(c.maxImageBytes)+1))
	if err != nil {
		return err
	}
	if len(data) > c.maxImageBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Image exceeds %d bytes", c.maxImageBytes))
	}

	// Trust the bytes, not the client's header
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fiber.NewError(fiber.StatusBadRequest, "Uploaded file is not an image")
	}

	res, err := c.service.Identify(ctx.UserContext(), serverutils.SessionId(ctx), entity.UploadedImage{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
		UploadedAt:  time.Now(),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Identification finished", res))
}
