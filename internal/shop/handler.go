package shop

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/afrishop/storegen/internal/templates"
)

// Handler exposes shop HTTP endpoints for the authenticated owner.
type Handler struct {
	service *Service
}

// NewHandler builds a shop HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type shopResponse struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Niche       string            `json:"niche"`
	ProductLink string            `json:"product_link"`
	Marketplace string            `json:"marketplace"`
	Status      string            `json:"status"`
	Layout      templates.Applied `json:"layout"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toResponse(s Shop) shopResponse {
	return shopResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Slug:        s.Slug,
		Niche:       s.Niche,
		ProductLink: s.ProductLink,
		Marketplace: s.Marketplace,
		Status:      s.Status,
		Layout:      s.Layout,
		CreatedAt:   s.CreatedAt,
	}
}

type createRequest struct {
	Name        string `json:"name"`
	Niche       string `json:"niche"`
	ProductLink string `json:"product_link"`
	BrandColor  string `json:"brand_color"`
	BrandTone   string `json:"brand_tone"`
	TemplateID  string `json:"template_id"`
}

// Create provisions another shop for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	shop, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:     ownerID,
		Name:        req.Name,
		Niche:       req.Niche,
		ProductLink: req.ProductLink,
		BrandColor:  req.BrandColor,
		BrandTone:   req.BrandTone,
		TemplateID:  req.TemplateID,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(shop))
}

// Get returns a shop owned by the caller.
func (h *Handler) Get(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	shop, err := h.service.Get(c.UserContext(), c.Params("shopId"))
	if errors.Is(err, ErrNotFound) || (err == nil && shop.OwnerID != ownerID) {
		return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(shop))
}

// Mine lists the caller's shops.
func (h *Handler) Mine(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}
	shops, err := h.service.ListByOwner(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]shopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, toResponse(s))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"shops": out})
}
