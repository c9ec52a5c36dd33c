package templates

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrishop/storegen/internal/onboarding"
)

func ids(list []Template) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestBuiltinCatalogue(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	want := []string{"tech-premium", "fashion-elegant", "minimal-clean", "food-vibrant", "services-professional", "ecommerce-standard"}
	if diff := cmp.Diff(want, ids(c.List(""))); diff != "" {
		t.Fatalf("catalogue mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"fashion-elegant"}, ids(c.List("fashion")))
	assert.Empty(t, c.List("unknown"))
	assert.Len(t, c.Categories(), 6)

	tpl, err := c.Get("tech-premium")
	require.NoError(t, err)
	assert.Equal(t, "#0066ff", tpl.BrandColor)
	assert.NotEmpty(t, tpl.Sections)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuggestRanksByNicheThenTone(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	got := ids(c.Suggest("electronics", "friendly"))
	want := []string{"tech-premium", "ecommerce-standard", "food-vibrant", "fashion-elegant", "minimal-clean", "services-professional"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("electronics ranking (-want +got):\n%s", diff)
	}

	got = ids(c.Suggest("fashion", ""))
	assert.Equal(t, []string{"fashion-elegant", "minimal-clean"}, got[:2])
	assert.Len(t, got, 6)

	assert.Equal(t, ids(c.List("")), ids(c.Suggest("unknown", "")))
}

func TestApplyGivesFreshSectionIDs(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	tpl, err := c.Get("minimal-clean")
	require.NoError(t, err)

	a := Apply(tpl, "Ma Boutique")
	b := Apply(tpl, "Ma Boutique")
	require.Len(t, a.Sections, len(tpl.Sections))
	assert.Equal(t, "minimal-clean", a.TemplateID)
	assert.Equal(t, tpl.BrandColor, a.BrandColor)
	for i := range a.Sections {
		assert.True(t, strings.HasPrefix(a.Sections[i].ID, tpl.Sections[i].ID+"-"))
		assert.NotEqual(t, a.Sections[i].ID, b.Sections[i].ID)
	}
	assert.Equal(t, tpl.Sections[0].ID, c.List("minimal")[0].Sections[0].ID, "catalogue must not be mutated")

	blank := Blank("Vide")
	assert.Equal(t, BlankColor, blank.BrandColor)
	assert.Empty(t, blank.Sections)
	assert.Empty(t, blank.TemplateID)
}

func TestParseRejectsBadCatalogues(t *testing.T) {
	cases := map[string]string{
		"empty":     "   ",
		"no id":     "templates:\n- name: x\n  brand_color: '#000000'\n",
		"duplicate": "templates:\n- id: a\n  brand_color: '#000000'\n- id: a\n  brand_color: '#000000'\n",
		"colour":    "templates:\n- id: a\n  brand_color: red\n",
		"syntax":    "templates: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "templates:\n- id: solo\n  name: Solo\n  category: minimal\n  brand_color: '#123456'\n  brand_tone: minimal\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, ids(c.List("")))

	c, err = LoadFile("")
	require.NoError(t, err)
	assert.Len(t, c.List(""), 6)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestChooserImplementsOnboarding(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	ch := NewChooser(c)
	ctx := context.Background()

	opts, err := ch.Suggest(ctx, onboarding.Summary{Niche: "electronics", Tone: "modern"})
	require.NoError(t, err)
	require.Len(t, opts, 6)
	assert.Equal(t, "tech-premium", opts[0].ID)

	opt, err := ch.Resolve(ctx, "food-vibrant")
	require.NoError(t, err)
	assert.Equal(t, "food", opt.Category)

	_, err = ch.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, onboarding.ErrUnknownTemplate)
}

func TestHandlerList(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	h := NewHandler(c)
	app := fiber.New()
	app.Get("/templates", h.List)
	app.Get("/templates/:id", h.Get)

	get := func(path string) (int, listResponse) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out listResponse
		if resp.StatusCode == fiber.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		}
		return resp.StatusCode, out
	}

	status, out := get("/templates?niche=electronics")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tech-premium", out.Templates[0].ID)

	status, out = get("/templates?category=food")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"food-vibrant"}, ids(out.Templates))

	status, _ = get("/templates/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
}
