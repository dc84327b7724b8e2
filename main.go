package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/database"
	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/jobs"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/routes"
	"github.com/pilotlife/pilotlife-backend/internal/services"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Info("No .env file found - using environment variables")
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Warn("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		database.Connect()

		log.Info("Running database migrations")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.World{},
			&models.PlayerWorld{},
			&models.Airport{},
			&models.Aircraft{},
			&models.TrackedFlight{},
			&models.FlightJob{},
			&models.Job{},
			&models.ReputationEvent{},
			&models.CreditScoreEvent{},
		)
		if err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
		log.Info("Database migrations completed")

		store = storage.NewDatabaseStore(database.DB)
	}

	// Set global store instance
	storage.SetStore(store)

	// Initialize services
	reputationConfig := config.LoadReputationConfig()
	reputationService := services.NewReputationService(store, reputationConfig)
	creditService := services.NewCreditScoreService(store)
	trackingService := services.NewFlightTrackingService(store, reputationService)
	jobService := services.NewJobService(store, reputationService, creditService)

	// Start background score maintenance
	recoveryJob := jobs.NewRecoveryJob(store, creditService, reputationService, reputationConfig)
	recoveryJob.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "PilotLife Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.SetupRoutes(app, trackingService, reputationService, creditService, jobService)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server...")
		recoveryJob.Stop()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("Starting PilotLife backend")
	if err := app.Listen(":" + port); err != nil {
		log.WithError(err).Fatal("Server failed to start")
	}
}
