package shop

import (
	"errors"
	"time"

	"github.com/afrishop/storegen/internal/templates"
)

const statusDraft = "draft"

// ErrNotFound is returned when a shop does not exist.
var ErrNotFound = errors.New("shop not found")

// Shop is a storefront created at the end of onboarding and edited in the builder.
type Shop struct {
	ID          string
	OwnerID     string
	Name        string
	Slug        string
	Niche       string
	ProductLink string
	Marketplace string
	Status      string
	Layout      templates.Applied
	CreatedAt   time.Time
}
