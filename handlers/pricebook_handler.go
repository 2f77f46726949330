package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

type PriceBookHandler struct {
	Store *services.Store
}

func NewPriceBookHandler(store *services.Store) *PriceBookHandler {
	return &PriceBookHandler{Store: store}
}

// priceBookRow is one list-view table row with its derived badge.
type priceBookRow struct {
	models.PriceBook
	Badge string `json:"badge"`
}

// detailKPIs are the five counters on the detail hero. Options, finishes and
// rules are hard-coded placeholders pending backend support.
type detailKPIs struct {
	Items    int `json:"items"`
	Families int `json:"families"`
	Options  int `json:"options"`
	Finishes int `json:"finishes"`
	Rules    int `json:"rules"`
}

// tabPanel describes one tab on the detail view. Only overview and items are
// wired; the rest render static placeholder panels.
type tabPanel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Wired bool   `json:"wired"`
}

var detailTabs = []tabPanel{
	{Key: "overview", Label: "Overview", Wired: true},
	{Key: "items", Label: "Items", Wired: true},
	{Key: "options", Label: "Options", Wired: false},
	{Key: "finishes", Label: "Finishes", Wired: false},
	{Key: "rules", Label: "Rules", Wired: false},
	{Key: "provenance", Label: "Provenance", Wired: false},
}

// GetPriceBooks renders the list view: all rows with derived badges plus the
// aggregate stat cards recomputed from the fetched collection.
func (h *PriceBookHandler) GetPriceBooks(c *fiber.Ctx) error {
	snap, err := h.Store.FetchPriceBooks(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}

	rows := make([]priceBookRow, 0, len(snap.PriceBooks))
	for _, book := range snap.PriceBooks {
		rows = append(rows, priceBookRow{PriceBook: book, Badge: book.StatusBadge()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pricebooks": rows,
			"stats":      models.ComputeStats(snap.PriceBooks),
		},
	})
}

// GetPriceBook renders the detail view for one book: hero summary, KPI
// counters and the tab set.
func (h *PriceBookHandler) GetPriceBook(c *fiber.Ctx) error {
	id := c.Params("id")
	book, err := h.Store.GetPriceBook(c.Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	if book == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "price book not found",
			"back":    "/pricebooks",
		})
	}

	items, err := h.Store.FetchProducts(c.Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pricebook": priceBookRow{PriceBook: *book, Badge: book.StatusBadge()},
			"kpis": detailKPIs{
				Items:    len(items),
				Families: models.CountFamilies(items),
			},
			"tabs":  detailTabs,
			"items": items,
		},
	})
}

// GetPriceBookItems renders the items tab for one book.
func (h *PriceBookHandler) GetPriceBookItems(c *fiber.Ctx) error {
	id := c.Params("id")
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

	items, err := h.Store.FetchProducts(c.Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// DeletePriceBook removes a book and returns the refreshed list. The blocking
// confirm prompt lives in the browser; by the time this runs the user already
// agreed.
func (h *PriceBookHandler) DeletePriceBook(c *fiber.Ctx) error {
	id := c.Params("id")
	snap, err := h.Store.DeletePriceBook(c.Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	rows := make([]priceBookRow, 0, len(snap.PriceBooks))
	for _, book := range snap.PriceBooks {
		rows = append(rows, priceBookRow{PriceBook: book, Badge: book.StatusBadge()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pricebooks": rows,
			"stats":      models.ComputeStats(snap.PriceBooks),
		},
	})
}
