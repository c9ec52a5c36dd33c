package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/afrishop/storegen/internal/identity"
	"github.com/afrishop/storegen/internal/shop"
	"github.com/afrishop/storegen/internal/templates"
)

// RegisterTemplateRoutes exposes the public starter template catalogue.
func RegisterTemplateRoutes(r fiber.Router, h *templates.Handler) {
	r.Get("/templates", h.List)
	r.Get("/templates/:id", h.Get)
}

// RegisterAccountRoutes wires the authenticated profile and shop endpoints.
func RegisterAccountRoutes(r fiber.Router, ids *identity.Handler, shops *shop.Handler) {
	r.Get("/me", ids.Me)
	r.Get("/me/shops", shops.Mine)
	r.Post("/shops", shops.Create)
	r.Get("/shops/:shopId", shops.Get)
}
