package identity

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type profileResponse struct {
	UserID         string            `json:"user_id"`
	Email          string            `json:"email"`
	FullName       string            `json:"full_name"`
	Phone          string            `json:"phone"`
	Country        string            `json:"country"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	EmailConfirmed bool              `json:"email_confirmed"`
	CreatedAt      time.Time         `json:"created_at"`
	LastLogin      *time.Time        `json:"last_login,omitempty"`
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}
	user, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.Status(http.StatusOK).JSON(profileResponse{
		UserID:         user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Phone:          user.Phone,
		Country:        user.Country,
		Metadata:       user.Metadata,
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      user.CreatedAt,
		LastLogin:      user.LastLogin,
	})
}
