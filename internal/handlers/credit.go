package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// CreditHandler exposes the credit score, ledger, and breakdown.
type CreditHandler struct {
	credit *services.CreditScoreService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(credit *services.CreditScoreService) *CreditHandler {
	return &CreditHandler{
		credit: credit,
	}
}

// GetScore returns the current credit score.
func (h *CreditHandler) GetScore(c *fiber.Ctx) error {
	playerWorldID := c.Params("playerWorldId")

	score, err := h.credit.GetCreditScore(playerWorldID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve credit score",
		})
	}
	return c.JSON(fiber.Map{"credit_score": score})
}

// GetHistory returns the credit event ledger, newest first.
func (h *CreditHandler) GetHistory(c *fiber.Ctx) error {
	playerWorldID := c.Params("playerWorldId")
	limit := c.QueryInt("limit", 50)

	events, err := h.credit.GetCreditHistory(playerWorldID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve credit history",
		})
	}
	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

// GetBreakdown returns the credit standing summary.
func (h *CreditHandler) GetBreakdown(c *fiber.Ctx) error {
	playerWorldID := c.Params("playerWorldId")

	breakdown, err := h.credit.GetCreditBreakdown(playerWorldID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve credit breakdown",
		})
	}
	return c.JSON(breakdown)
}
