package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// JobHandler handles job completion requests.
type JobHandler struct {
	jobs *services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{
		jobs: jobs,
	}
}

// CompleteJob finishes a job and feeds the outcome into the reputation and
// credit ledgers.
func (h *JobHandler) CompleteJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job ID is required",
		})
	}

	var body struct {
		PlayerWorldID string `json:"player_world_id"`
		Failed        bool   `json:"failed"`
	}
	if err := c.BodyParser(&body); err != nil || body.PlayerWorldID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "player_world_id is required",
		})
	}

	result, err := h.jobs.CompleteJob(body.PlayerWorldID, jobID, body.Failed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete job",
		})
	}
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}
