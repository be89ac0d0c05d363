// handlers/settlement_routes.go
package handlers

import (
	"github.com/ViniDeiro/rpx-sub004/middleware"
	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/ViniDeiro/rpx-sub004/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

func SetupSettlementRoutes(app *fiber.App, settlementService *services.SettlementService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/matches/:id/validate", func(c *fiber.Ctx) error {
		if !middleware.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}

		matchID := c.Params("id")
		if _, err := uuid.Parse(matchID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match ID"})
		}

		var req struct {
			WinnerID   string `json:"winner_id" validate:"required"`
			WinnerType string `json:"winner_type" validate:"required,oneof=user team"`
			Notes      string `json:"notes" validate:"max=500"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request", "cause": err.Error()})
		}

		validatorID := c.Locals("user_id").(string)
		result, err := settlementService.ValidateMatch(matchID, req.WinnerID, models.WinnerType(req.WinnerType), validatorID, req.Notes)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})
}
