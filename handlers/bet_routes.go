// handlers/bet_routes.go
package handlers

import (
	"strconv"

	"github.com/ViniDeiro/rpx-sub004/middleware"
	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/ViniDeiro/rpx-sub004/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SetupBetRoutes(app *fiber.App, betService *services.BetService, rankService *services.RankService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/bets/:id", func(c *fiber.Ctx) error {
		betID := c.Params("id")
		if _, err := uuid.Parse(betID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bet ID"})
		}

		callerID := c.Locals("user_id").(string)
		bet, err := betService.GetBet(betID, callerID, middleware.IsAdmin(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(bet)
	})

	securedGroup.Post("/bets/:id/action", func(c *fiber.Ctx) error {
		betID := c.Params("id")
		if _, err := uuid.Parse(betID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bet ID"})
		}

		var req struct {
			Action string `json:"action" validate:"required,oneof=cashout cancel"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request", "cause": err.Error()})
		}

		callerID := c.Locals("user_id").(string)
		var bet *models.Bet
		var err error
		switch req.Action {
		case "cashout":
			bet, err = betService.Cashout(betID, callerID)
		case "cancel":
			bet, err = betService.Cancel(betID, callerID)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(bet)
	})

	securedGroup.Get("/user/transactions", func(c *fiber.Ctx) error {
		callerID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		entries, err := betService.TransactionHistory(callerID, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(entries)
	})

	securedGroup.Get("/user/rank", func(c *fiber.Ctx) error {
		callerID := c.Locals("user_id").(string)

		var acct models.PlayerAccount
		if err := rankService.DB.Where("id = ?", callerID).First(&acct).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player account not found"})
			}
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"user_id":      acct.ID,
			"username":     acct.Username,
			"rank_points":  acct.RankPoints,
			"current_tier": acct.CurrentTier,
		})
	})

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		accounts, err := rankService.Leaderboard(limit)
		if err != nil {
			return respondError(c, err)
		}

		var entries []fiber.Map
		for i, acct := range accounts {
			entries = append(entries, fiber.Map{
				"position":     i + 1,
				"user_id":      acct.ID,
				"username":     acct.Username,
				"rank_points":  acct.RankPoints,
				"current_tier": acct.CurrentTier,
			})
		}
		return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
	})
}
