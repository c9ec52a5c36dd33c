package templates

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the template catalogue.
type Handler struct {
	catalog *Catalog
}

// NewHandler builds a catalogue HTTP handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

type listResponse struct {
	Categories []string   `json:"categories"`
	Templates  []Template `json:"templates"`
}

// List returns the catalogue. ?niche ranks it for a shop niche, optionally
// with ?tone; ?category filters it.
func (h *Handler) List(c *fiber.Ctx) error {
	list := h.catalog.List("")
	if niche := c.Query("niche"); niche != "" {
		list = h.catalog.Suggest(niche, c.Query("tone"))
	}
	if category := c.Query("category"); category != "" {
		filtered := make([]Template, 0, len(list))
		for _, t := range list {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}
	return c.Status(http.StatusOK).JSON(listResponse{Categories: h.catalog.Categories(), Templates: list})
}

// Get returns one template.
func (h *Handler) Get(c *fiber.Ctx) error {
	t, err := h.catalog.Get(c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(t)
}
