package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// MetricsHandler exposes the store's per-operation request metrics.
type MetricsHandler struct {
	Store *services.Store
}

func NewMetricsHandler(store *services.Store) *MetricsHandler {
	return &MetricsHandler{Store: store}
}

func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Store.Metrics().GetSnapshot(),
	})
}
