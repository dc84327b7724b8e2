package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// ReputationHandler exposes reputation status and history.
type ReputationHandler struct {
	reputation *services.ReputationService
}

// NewReputationHandler creates a new reputation handler
func NewReputationHandler(reputation *services.ReputationService) *ReputationHandler {
	return &ReputationHandler{
		reputation: reputation,
	}
}

// GetStatus returns the full reputation summary for a player world.
func (h *ReputationHandler) GetStatus(c *fiber.Ctx) error {
	playerWorldID := c.Params("playerWorldId")

	status, err := h.reputation.GetReputationStatus(playerWorldID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Player world not found",
		})
	}
	return c.JSON(status)
}

// GetHistory returns the reputation event ledger, newest first.
func (h *ReputationHandler) GetHistory(c *fiber.Ctx) error {
	playerWorldID := c.Params("playerWorldId")
	limit := c.QueryInt("limit", 50)

	events, err := h.reputation.GetReputationHistory(playerWorldID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve reputation history",
		})
	}
	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}
