package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/afrishop/storegen/internal/logging"
	"github.com/afrishop/storegen/internal/onboarding"
	"github.com/afrishop/storegen/internal/templates"
)

// Service manages draft shops.
type Service struct {
	repo    Repository
	catalog *templates.Catalog
	logger  *slog.Logger
}

// NewService builds a shop service. catalog resolves the template a shop starts from.
func NewService(repo Repository, catalog *templates.Catalog, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, logger: logging.Component(logger, "shop")}
}

// CreateInput captures data required to create a shop.
type CreateInput struct {
	OwnerID     string
	Name        string
	Niche       string
	ProductLink string
	Marketplace string
	BrandColor  string
	BrandTone   string
	TemplateID  string
}

// Create provisions a draft shop. Without a template the shop starts blank;
// brand choices made in the wizard override the template's defaults.
func (s *Service) Create(ctx context.Context, input CreateInput) (Shop, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Shop{}, fmt.Errorf("invalid owner id: %w", err)
	}
	name := CleanName(input.Name)
	if name == "" {
		return Shop{}, errors.New("shop name is required")
	}

	layout := templates.Blank(name)
	if input.TemplateID != "" {
		if s.catalog == nil {
			return Shop{}, fmt.Errorf("%w: %s", templates.ErrNotFound, input.TemplateID)
		}
		tpl, err := s.catalog.Get(input.TemplateID)
		if err != nil {
			return Shop{}, err
		}
		layout = templates.Apply(tpl, name)
	}
	if input.BrandColor != "" {
		layout.BrandColor = input.BrandColor
	}
	if input.BrandTone != "" {
		layout.BrandTone = input.BrandTone
	}

	id := uuid.New().String()
	slug := Slugify(name)
	if slug == "" {
		slug = "shop"
	}

	shop := Shop{
		ID:          id,
		OwnerID:     input.OwnerID,
		Name:        name,
		Slug:        slug + "-" + id[:8],
		Niche:       input.Niche,
		ProductLink: input.ProductLink,
		Marketplace: input.Marketplace,
		Status:      statusDraft,
		Layout:      layout,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return Shop{}, err
	}
	s.logger.Info("shop created", slog.String("shop_id", shop.ID), slog.String("owner_id", shop.OwnerID), slog.String("template", layout.TemplateID))
	return shop, nil
}

// Get retrieves a shop.
func (s *Service) Get(ctx context.Context, id string) (Shop, error) {
	return s.repo.Get(ctx, id)
}

// ListByOwner returns the shops of a user, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Shop, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// LatestShopID returns the most recently created shop of a user.
func (s *Service) LatestShopID(ctx context.Context, ownerID string) (string, error) {
	shops, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if len(shops) == 0 {
		return "", ErrNotFound
	}
	return shops[0].ID, nil
}

// Provision implements onboarding.ShopProvisioner.
func (s *Service) Provision(ctx context.Context, ownerID string, p onboarding.Payload) (string, error) {
	input := CreateInput{
		OwnerID:     ownerID,
		Name:        p.ShopName,
		Niche:       p.ShopNiche,
		ProductLink: p.ProductLink,
		Marketplace: string(p.Marketplace),
		BrandColor:  p.BrandColor,
		BrandTone:   p.BrandTone,
	}
	if p.Template != nil {
		input.TemplateID = p.Template.ID
	}
	shop, err := s.Create(ctx, input)
	if err != nil {
		return "", err
	}
	return shop.ID, nil
}

var _ onboarding.ShopProvisioner = (*Service)(nil)
