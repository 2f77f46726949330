package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/dancodes91/arc-pdf-tool-sub003/config"
	"github.com/dancodes91/arc-pdf-tool-sub003/handlers"
	"github.com/dancodes91/arc-pdf-tool-sub003/services"
	"github.com/dancodes91/arc-pdf-tool-sub003/shared"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	logrus.SetLevel(cfg.GetLogLevel())

	// Backend client over a pooled HTTP client
	httpFactory := shared.NewHTTPClientFactory(cfg.GetHTTPTimeout())
	backendClient := services.NewBackendClient(cfg.APIBaseURL, httpFactory, cfg.GetHTTPTimeout())

	// Local export history, the dashboard's only durable state
	exportHistory := services.NewExportHistory(cfg.ExportHistoryPath)

	// The injected state container every view reads through
	store := services.NewStore(backendClient, exportHistory)
	selection := services.NewReviewSelection()

	logrus.WithFields(logrus.Fields{
		"api_base_url":        cfg.APIBaseURL,
		"http_timeout":        cfg.GetHTTPTimeout(),
		"export_history_path": cfg.ExportHistoryPath,
	}).Info("Price-book dashboard initialized")

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Routes
	handlers.RegisterRoutes(app, store, selection)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
