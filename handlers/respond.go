package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/shared"
)

// statusForError maps service error categories to HTTP statuses. Validation
// failures are the blocking-alert analog; backend and network failures feed
// the inline error banners.
func statusForError(err error) int {
	switch shared.CategoryOf(err) {
	case shared.ErrorCategoryValidation:
		return fiber.StatusBadRequest
	case shared.ErrorCategoryNotFound:
		return fiber.StatusNotFound
	case shared.ErrorCategoryConflict:
		return fiber.StatusConflict
	case shared.ErrorCategoryNetwork, shared.ErrorCategoryBackend:
		return fiber.StatusBadGateway
	case shared.ErrorCategoryTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
