package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/middleware"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// ConnectorHandler receives telemetry from the simulator connector.
type ConnectorHandler struct {
	tracking *services.FlightTrackingService
}

// NewConnectorHandler creates a new connector handler
func NewConnectorHandler(tracking *services.FlightTrackingService) *ConnectorHandler {
	return &ConnectorHandler{
		tracking: tracking,
	}
}

// StartFlight begins tracking a new flight session.
func (h *ConnectorHandler) StartFlight(c *fiber.Ctx) error {
	var data models.FlightStartData
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if data.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	response, err := h.tracking.StartFlight(middleware.UserID(c), &data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start flight",
		})
	}
	if !response.Success {
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}
	return c.JSON(response)
}

// UpdateFlight applies a periodic telemetry push.
func (h *ConnectorHandler) UpdateFlight(c *fiber.Ctx) error {
	var update models.FlightStateUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.tracking.UpdateFlight(middleware.UserID(c), &update)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update flight",
		})
	}
	if !response.Success {
		if response.Message == "No active flight found for this session" {
			return c.Status(fiber.StatusNotFound).JSON(response)
		}
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}
	return c.JSON(response)
}

// EndFlight finalizes the flight session.
func (h *ConnectorHandler) EndFlight(c *fiber.Ctx) error {
	var data models.FlightEndData
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.tracking.EndFlight(middleware.UserID(c), &data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to end flight",
		})
	}
	if !response.Success {
		if response.Message == "No active flight found for this session" {
			return c.Status(fiber.StatusNotFound).JSON(response)
		}
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}
	return c.JSON(response)
}

// GetActiveFlight returns the caller's in-progress flight.
func (h *ConnectorHandler) GetActiveFlight(c *fiber.Ctx) error {
	flight, err := h.tracking.GetActiveFlight(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up active flight",
		})
	}
	if flight == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active flight",
		})
	}
	return c.JSON(flight)
}
