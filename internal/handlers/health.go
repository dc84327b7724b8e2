package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthCheck returns the server status
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "pilotlife-backend",
		"version": "1.0.0",
	})
}
