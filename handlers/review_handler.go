package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/models"
	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// ReviewHandler serves the diff review screen: comparison restricted to
// completed books, client-side-style filtering of the fetched change list, and
// the selection set behind the approve action.
type ReviewHandler struct {
	Store     *services.Store
	Selection *services.ReviewSelection
}

func NewReviewHandler(store *services.Store, selection *services.ReviewSelection) *ReviewHandler {
	return &ReviewHandler{Store: store, Selection: selection}
}

// CompareForReview is the compare flow with the extra restriction that both
// books must carry the Completed badge. A fresh comparison clears the
// selection set.
func (h *ReviewHandler) CompareForReview(c *fiber.Ctx) error {
	var req compareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	books, err := h.Store.PriceBooks(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	for _, id := range []string{req.OldID, req.NewID} {
		if id == "" {
			continue // the store reports missing selections
		}
		if !isCompletedBook(books, id) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "only completed price books can be reviewed",
			})
		}
	}

	snap, err := h.Store.ComparePriceBooks(c.Context(), req.OldID, req.NewID)
	if err != nil {
		return errorJSON(c, err)
	}
	h.Selection.Clear()

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"comparison": snap.Comparison,
			"counts":     services.FilterCounts(snap.Comparison.Changes),
		},
	})
}

// GetChanges filters the already-fetched change list by the active category
// and reports per-category counts plus the current selection.
func (h *ReviewHandler) GetChanges(c *fiber.Ctx) error {
	filter := services.ChangeFilter(c.Query("filter", string(services.FilterAll)))
	if !services.IsValidFilter(filter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "unknown filter category",
		})
	}

	snap := h.Store.Snapshot()
	if snap.Comparison == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "no comparison loaded",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"filter":   filter,
			"changes":  services.FilterChanges(snap.Comparison.Changes, filter),
			"counts":   services.FilterCounts(snap.Comparison.Changes),
			"selected": h.Selection.Selected(),
		},
	})
}

type selectionRequest struct {
	Action    string   `json:"action"` // select, deselect, select_all, clear
	ChangeIDs []string `json:"change_ids"`
}

// UpdateSelection mutates the selection set by change id, including
// select-all and deselect-all.
func (h *ReviewHandler) UpdateSelection(c *fiber.Ctx) error {
	var req selectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	switch req.Action {
	case "select":
		h.Selection.Select(req.ChangeIDs...)
	case "deselect":
		h.Selection.Deselect(req.ChangeIDs...)
	case "select_all":
		snap := h.Store.Snapshot()
		if snap.Comparison == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "no comparison loaded",
			})
		}
		h.Selection.SelectAll(snap.Comparison.Changes)
	case "clear":
		h.Selection.Clear()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "unknown selection action",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"selected": h.Selection.Selected(),
		},
	})
}

// ApproveSelection acknowledges the approve action. The approval backend
// contract does not exist yet; the selection is logged and nothing is sent.
func (h *ReviewHandler) ApproveSelection(c *fiber.Ctx) error {
	approved := h.Selection.Approve()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"approved": approved,
			"note":     "approval is not wired to the backend yet",
		},
	})
}

func isCompletedBook(books []models.PriceBook, id string) bool {
	for i := range books {
		if books[i].ID == id {
			return books[i].StatusBadge() == models.BadgeCompleted
		}
	}
	return false
}
