package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pilotlife/pilotlife-backend/internal/handlers"
	"github.com/pilotlife/pilotlife-backend/internal/middleware"
	"github.com/pilotlife/pilotlife-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	tracking *services.FlightTrackingService,
	reputation *services.ReputationService,
	credit *services.CreditScoreService,
	jobs *services.JobService,
) {
	connectorHandler := handlers.NewConnectorHandler(tracking)
	flightHandler := handlers.NewFlightHandler(tracking)
	reputationHandler := handlers.NewReputationHandler(reputation)
	creditHandler := handlers.NewCreditHandler(credit)
	jobHandler := handlers.NewJobHandler(jobs)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the PilotLife Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":     "/health",
				"connector":  "/api/connector",
				"flights":    "/api/flights",
				"jobs":       "/api/jobs",
				"reputation": "/api/reputation",
				"credit":     "/api/credit",
			},
		})
	})

	// Health check
	app.Get("/health", handlers.HealthCheck)

	// All API routes require an authenticated user
	api := app.Group("/api", middleware.RequireAuth())

	// Connector telemetry routes
	connector := api.Group("/connector")
	connector.Post("/flight/start", connectorHandler.StartFlight)
	connector.Post("/flight/update", connectorHandler.UpdateFlight)
	connector.Post("/flight/end", connectorHandler.EndFlight)
	connector.Get("/flight/active", connectorHandler.GetActiveFlight)

	// Flight management routes
	flights := api.Group("/flights")
	flights.Post("/:id/cancel", flightHandler.CancelFlight)
	flights.Post("/:id/jobs", flightHandler.AssignJobs)

	// Job routes
	jobsGroup := api.Group("/jobs")
	jobsGroup.Post("/:id/complete", jobHandler.CompleteJob)

	// Reputation routes
	reputationGroup := api.Group("/reputation")
	reputationGroup.Get("/:playerWorldId", reputationHandler.GetStatus)
	reputationGroup.Get("/:playerWorldId/history", reputationHandler.GetHistory)

	// Credit routes
	creditGroup := api.Group("/credit")
	creditGroup.Get("/:playerWorldId", creditHandler.GetScore)
	creditGroup.Get("/:playerWorldId/history", creditHandler.GetHistory)
	creditGroup.Get("/:playerWorldId/breakdown", creditHandler.GetBreakdown)
}
