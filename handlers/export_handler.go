package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// ExportHandler serves the export center: eligible books, per-format export
// triggers, and the capped local history.
type ExportHandler struct {
	Store *services.Store
}

func NewExportHandler(store *services.Store) *ExportHandler {
	return &ExportHandler{Store: store}
}

// GetEligible lists the books whose status makes them exportable, with the
// formats each one offers.
func (h *ExportHandler) GetEligible(c *fiber.Ctx) error {
	books, err := h.Store.PriceBooks(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}

	eligible := make([]priceBookRow, 0, len(books))
	for _, book := range books {
		if book.IsExportable() {
			eligible = append(eligible, priceBookRow{PriceBook: book, Badge: book.StatusBadge()})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pricebooks": eligible,
			"formats":    models.ExportFormats,
		},
	})
}

// ExportPriceBook triggers one export and streams the backend's artifact back
// as a download. Format defaults to excel, matching the list view's row
// action.
func (h *ExportHandler) ExportPriceBook(c *fiber.Ctx) error {
	id := c.Params("id")
	format := c.Query("format", models.ExportFormatExcel)
	if !models.IsValidExportFormat(format) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("unsupported export format: %s", format),
		})
	}

	book, err := h.Store.GetPriceBook(c.Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	if book == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "price book not found",
		})
	}

	artifact, err := h.Store.ExportPriceBook(c.Context(), book, format)
	if err != nil {
		return errorJSON(c, err)
	}

	filename := artifact.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-%s.%s", book.Manufacturer, book.ID, extensionFor(format))
	}
	if artifact.ContentType != "" {
		c.Set(fiber.HeaderContentType, artifact.ContentType)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(artifact.Data)
}

// GetHistory returns the persisted export history, newest first.
func (h *ExportHandler) GetHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Store.ExportHistoryEntries(),
	})
}

func extensionFor(format string) string {
	switch format {
	case models.ExportFormatExcel:
		return "xlsx"
	case models.ExportFormatCSV:
		return "csv"
	default:
		return "json"
	}
}
