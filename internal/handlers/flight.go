package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// FlightHandler handles flight management requests outside the connector
// telemetry path.
type FlightHandler struct {
	tracking *services.FlightTrackingService
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(tracking *services.FlightTrackingService) *FlightHandler {
	return &FlightHandler{
		tracking: tracking,
	}
}

// CancelFlight moves a non-terminal flight to Cancelled.
func (h *FlightHandler) CancelFlight(c *fiber.Ctx) error {
	flightID := c.Params("id")
	if flightID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Flight ID is required",
		})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional
	_ = c.BodyParser(&body)

	ok, err := h.tracking.CancelFlight(flightID, body.Reason)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel flight",
		})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Flight not found or already completed",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// AssignJobs attaches jobs to an in-progress flight.
func (h *FlightHandler) AssignJobs(c *fiber.Ctx) error {
	flightID := c.Params("id")
	if flightID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Flight ID is required",
		})
	}

	var body struct {
		JobIDs []string `json:"job_ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.JobIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_ids is required",
		})
	}

	ok, err := h.tracking.AssignJobsToFlight(flightID, body.JobIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign jobs",
		})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Flight not found or already completed",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
