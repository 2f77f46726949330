package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

type CompareHandler struct {
	Store *services.Store
}

func NewCompareHandler(store *services.Store) *CompareHandler {
	return &CompareHandler{Store: store}
}

type compareRequest struct {
	OldID string `json:"old_id"`
	NewID string `json:"new_id"`
}

// Compare runs the comparison for two selected price books and renders the
// summary counters plus the full change table. Selection validation happens in
// the store before any request goes out.
func (h *CompareHandler) Compare(c *fiber.Ctx) error {
	var req compareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	snap, err := h.Store.ComparePriceBooks(c.Context(), req.OldID, req.NewID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    snap.Comparison,
	})
}
