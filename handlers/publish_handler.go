package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// PublishHandler serves the publish screen: dry runs feed the preview panel,
// real runs are reflected through the refreshed history.
type PublishHandler struct {
	Store *services.Store
}

func NewPublishHandler(store *services.Store) *PublishHandler {
	return &PublishHandler{Store: store}
}

type publishRequest struct {
	PriceBookID string `json:"pricebook_id"`
	DryRun      *bool  `json:"dry_run"` // defaults to true when omitted
}

// Publish runs a dry or real publish for one eligible book.
func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.PriceBookID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "select a price book to publish",
		})
	}

	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	book, err := h.Store.GetPriceBook(c.Context(), req.PriceBookID)
	if err != nil {
		return errorJSON(c, err)
	}
	if book == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "price book not found",
		})
	}
	if !book.IsExportable() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "only completed price books can be published",
		})
	}

	snap, result, err := h.Store.Publish(c.Context(), req.PriceBookID, dryRun)
	if err != nil {
		return errorJSON(c, err)
	}

	if dryRun {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"state":   snap.PublishState,
				"preview": snap.PublishPreview,
			},
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"state":   snap.PublishState,
			"result":  result,
			"history": snap.PublishHistory,
		},
	})
}

// GetHistory fetches the collection of prior publish runs.
func (h *PublishHandler) GetHistory(c *fiber.Ctx) error {
	snap, err := h.Store.FetchPublishHistory(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}

	runs := snap.PublishHistory
	if runs == nil {
		runs = []models.PublishRun{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    runs,
	})
}
