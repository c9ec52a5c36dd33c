package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/afrishop/storegen/internal/onboarding"
)

// RegisterOnboardingRoutes wires the signup wizard. All endpoints are public:
// the wizard runs before the user has an account.
func RegisterOnboardingRoutes(r fiber.Router, h *onboarding.Handler) {
	group := r.Group("/onboarding")
	group.Get("/steps", h.Steps)
	group.Post("/password-strength", h.PasswordStrength)

	sessions := group.Group("/sessions")
	sessions.Post("", h.Start)
	sessions.Get("/:id", h.Get)
	sessions.Put("/:id/steps/:step", h.UpdateStep)
	sessions.Post("/:id/advance", h.Advance)
	sessions.Post("/:id/retreat", h.Retreat)
	sessions.Post("/:id/submit", h.Submit)
	sessions.Post("/:id/acknowledge", h.Acknowledge)
	sessions.Get("/:id/templates", h.Templates)
	sessions.Post("/:id/template", h.SelectTemplate)
}
