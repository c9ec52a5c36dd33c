package shop

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrishop/storegen/internal/logging"
	"github.com/afrishop/storegen/internal/onboarding"
	"github.com/afrishop/storegen/internal/templates"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog, err := templates.Load()
	require.NoError(t, err)
	return NewService(NewMemoryRepository(), catalog, logging.Discard())
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.NewString()

	shop, err := svc.Create(ctx, CreateInput{OwnerID: ownerID, Name: "  Café <b>Awa</b> ", TemplateID: "food-vibrant"})
	require.NoError(t, err)
	assert.Equal(t, "Café Awa", shop.Name)
	assert.True(t, strings.HasPrefix(shop.Slug, "cafe-awa-"), shop.Slug)
	assert.Equal(t, statusDraft, shop.Status)
	assert.Equal(t, "food-vibrant", shop.Layout.TemplateID)
	assert.NotEmpty(t, shop.Layout.Sections)

	fetched, err := svc.Get(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, shop, fetched)

	latest, err := svc.LatestShopID(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, shop.ID, latest)

	_, err = svc.LatestShopID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCreateRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{OwnerID: "not-a-uuid", Name: "Shop"})
	assert.Error(t, err)
	_, err = svc.Create(ctx, CreateInput{OwnerID: uuid.NewString(), Name: "<script></script>"})
	assert.Error(t, err)
	_, err = svc.Create(ctx, CreateInput{OwnerID: uuid.NewString(), Name: "Shop", TemplateID: "missing"})
	assert.ErrorIs(t, err, templates.ErrNotFound)
}

func TestProvisionFromOnboardingPayload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.NewString()

	payload := onboarding.Payload{
		ProductLink: "https://www.aliexpress.com/item/1",
		Marketplace: onboarding.MarketplaceAliExpress,
		BrandTone:   "elegant",
		BrandColor:  "#111111",
		ShopName:    "L'atelier",
		ShopNiche:   "fashion",
		Template:    &onboarding.TemplateRef{ID: "fashion-elegant", Name: "Fashion Elegant"},
	}
	id, err := svc.Provision(ctx, ownerID, payload)
	require.NoError(t, err)

	shop, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "L'atelier", shop.Name)
	assert.Equal(t, "#111111", shop.Layout.BrandColor, "wizard colour wins over the template's")
	assert.Equal(t, "elegant", shop.Layout.BrandTone)
	assert.Equal(t, "fashion-elegant", shop.Layout.TemplateID)
	assert.Equal(t, "aliexpress", shop.Marketplace)

	payload.Template = nil
	payload.BrandColor = ""
	id, err = svc.Provision(ctx, ownerID, payload)
	require.NoError(t, err)
	blank, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, blank.Layout.Sections)
	assert.Equal(t, templates.BlankColor, blank.Layout.BrandColor)

	shops, err := svc.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, shops, 2)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ma Boutique":       "ma-boutique",
		"Élégance & Co.":    "elegance-co",
		"  --Tech 2025--  ": "tech-2025",
		"日本":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestHandlerScopesShopsToOwner(t *testing.T) {
	svc := newTestService(t)
	h := NewHandler(svc)
	owner := uuid.NewString()
	shop, err := svc.Create(context.Background(), CreateInput{OwnerID: owner, Name: "Mine"})
	require.NoError(t, err)

	app := fiber.New()
	as := func(userID string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals("user_id", userID)
			return c.Next()
		}
	}
	app.Get("/owner/shops/:shopId", as(owner), h.Get)
	app.Get("/other/shops/:shopId", as(uuid.NewString()), h.Get)
	app.Get("/owner/me/shops", as(owner), h.Mine)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/owner/shops/"+shop.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/other/shops/"+shop.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/owner/me/shops", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Shops []shopResponse `json:"shops"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Shops, 1)
	assert.Equal(t, "Mine", body.Shops[0].Name)
}
