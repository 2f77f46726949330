package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dancodes91/arc-pdf-tool-sub003/services"
)

// FilesHandler proxies the backend's static source documents so the browser
// talks to one origin.
type FilesHandler struct {
	Store *services.Store
}

func NewFilesHandler(store *services.Store) *FilesHandler {
	return &FilesHandler{Store: store}
}

// GetSourceDocument streams the original source document referenced by a
// stored relative path.
func (h *FilesHandler) GetSourceDocument(c *fiber.Ctx) error {
	relPath := c.Params("*")
	if relPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "missing document path",
		})
	}

	artifact, err := h.Store.FetchSourceDocument(c.Context(), relPath)
	if err != nil {
		return errorJSON(c, err)
	}

	if artifact.ContentType != "" {
		c.Set(fiber.HeaderContentType, artifact.ContentType)
	}
	return c.Send(artifact.Data)
}
