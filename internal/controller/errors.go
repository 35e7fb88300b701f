package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"plantpal-be/internal/entity"
	"plantpal-be/internal/service"
)

// toHTTPError maps session errors to statuses. Anything else stays a 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrIdentificationInProgress), errors.Is(err, entity.ErrChatInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrEmptyMessage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
