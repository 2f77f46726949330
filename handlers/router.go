package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// RegisterRoutes mounts every dashboard view under /api/v1 plus the health
// check.
func RegisterRoutes(app *fiber.App, store *services.Store, selection *services.ReviewSelection) {
	priceBookHandler := NewPriceBookHandler(store)
	compareHandler := NewCompareHandler(store)
	reviewHandler := NewReviewHandler(store, selection)
	exportHandler := NewExportHandler(store)
	publishHandler := NewPublishHandler(store)
	filesHandler := NewFilesHandler(store)
	metricsHandler := NewMetricsHandler(store)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := app.Group("/api/v1")

	// Price-book list and detail views
	api.Get("/pricebooks", priceBookHandler.GetPriceBooks)
	api.Get("/pricebooks/:id", priceBookHandler.GetPriceBook)
	api.Get("/pricebooks/:id/items", priceBookHandler.GetPriceBookItems)
	api.Delete("/pricebooks/:id", priceBookHandler.DeletePriceBook)
	api.Post("/pricebooks/:id/export", exportHandler.ExportPriceBook)

	// Compare view
	api.Post("/compare", compareHandler.Compare)

	// Diff review view
	review := api.Group("/review")
	review.Post("/compare", reviewHandler.CompareForReview)
	review.Get("/changes", reviewHandler.GetChanges)
	review.Post("/selection", reviewHandler.UpdateSelection)
	review.Post("/approve", reviewHandler.ApproveSelection)

	// Export center
	exports := api.Group("/exports")
	exports.Get("/eligible", exportHandler.GetEligible)
	exports.Get("/history", exportHandler.GetHistory)

	// Publish view
	api.Post("/publish", publishHandler.Publish)
	api.Get("/publish/history", publishHandler.GetHistory)

	// Source document passthrough and request metrics
	api.Get("/files/*", filesHandler.GetSourceDocument)
	api.Get("/metrics", metricsHandler.GetMetrics)
}
