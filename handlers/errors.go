package handlers

import (
	"errors"

	"github.com/ViniDeiro/rpx-sub004/services"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the service failure taxonomy to transport codes. Every
// failure path reports a specific reason; transient store conflicts also
// flag that the whole operation is safe to retry.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidMatchState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTransientStore):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": true,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
