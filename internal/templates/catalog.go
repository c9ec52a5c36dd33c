package templates

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFS embed.FS

const (
	builtinPath = "catalog.yaml"

	// BlankColor and BlankTone describe the shop created when no template is picked.
	BlankColor = "#ea580c"
	BlankTone  = "modern"
)

// ErrNotFound is returned for template ids missing from the catalogue.
var ErrNotFound = errors.New("template not found")

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Content is the copy shown by a section.
type Content struct {
	Title       string `yaml:"title" json:"title"`
	Subtitle    string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	ButtonText  string `yaml:"button_text,omitempty" json:"button_text,omitempty"`
}

// Style holds the spacing and background of a section.
type Style struct {
	PaddingTop    string `yaml:"padding_top" json:"padding_top"`
	PaddingBottom string `yaml:"padding_bottom" json:"padding_bottom"`
	Background    string `yaml:"background" json:"background"`
}

// Section is one block of a starter template.
type Section struct {
	ID       string  `yaml:"id" json:"id"`
	Category string  `yaml:"category" json:"category"`
	Name     string  `yaml:"name" json:"name"`
	Content  Content `yaml:"content" json:"content"`
	Style    Style   `yaml:"style" json:"style"`
}

// Template is a predefined shop layout.
type Template struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Category    string    `yaml:"category" json:"category"`
	Thumbnail   string    `yaml:"thumbnail" json:"thumbnail"`
	BrandColor  string    `yaml:"brand_color" json:"brand_color"`
	BrandTone   string    `yaml:"brand_tone" json:"brand_tone"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

type document struct {
	Templates []Template          `yaml:"templates"`
	Niches    map[string][]string `yaml:"niches"`
}

// Catalog is an immutable, ordered set of templates.
type Catalog struct {
	templates []Template
	byID      map[string]int
	niches    map[string][]string
}

// Load returns the built-in catalogue.
func Load() (*Catalog, error) {
	data, err := catalogFS.ReadFile(builtinPath)
	if err != nil {
		return nil, fmt.Errorf("templates: read built-in catalogue: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a catalogue from disk. An empty path falls back to the built-in one.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalogue and validates it.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("templates: catalogue is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("templates: parse catalogue: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Templates)), niches: doc.Niches}
	for i, t := range doc.Templates {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("templates: entry %d has an empty id", i)
		}
		if _, exists := c.byID[t.ID]; exists {
			return nil, fmt.Errorf("templates: duplicate template %q", t.ID)
		}
		if !hexColor.MatchString(t.BrandColor) {
			return nil, fmt.Errorf("templates: template %q has invalid brand colour %q", t.ID, t.BrandColor)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	if c.niches == nil {
		c.niches = map[string][]string{}
	}
	return c, nil
}

// List returns the templates of category, or all of them when category is empty.
func (c *Catalog) List(category string) []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the template with id.
func (c *Catalog) Get(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.templates[i], nil
}

// Categories lists the distinct categories in catalogue order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// Suggest orders the whole catalogue for a shop: templates whose category
// suits the niche come first, in the niche's preference order, then those
// sharing the brand tone, then the rest. Ties keep catalogue order.
func (c *Catalog) Suggest(niche, tone string) []Template {
	rank := map[string]int{}
	for i, cat := range c.niches[niche] {
		rank[cat] = i
	}
	preferred := len(rank)

	score := func(t Template) int {
		if r, ok := rank[t.Category]; ok {
			return r
		}
		if tone != "" && t.BrandTone == tone {
			return preferred
		}
		return preferred + 1
	}

	out := c.List("")
	sort.SliceStable(out, func(i, j int) bool { return score(out[i]) < score(out[j]) })
	return out
}

// Applied is a template instantiated for one shop.
type Applied struct {
	TemplateID string    `json:"template_id,omitempty"`
	ShopName   string    `json:"shop_name"`
	BrandColor string    `json:"brand_color"`
	BrandTone  string    `json:"brand_tone"`
	Sections   []Section `json:"sections"`
}

// Apply copies the template's sections under fresh instance ids so that two
// shops built from the same template never share section ids.
func Apply(t Template, shopName string) Applied {
	sections := make([]Section, len(t.Sections))
	for i, s := range t.Sections {
		s.ID = s.ID + "-" + uuid.NewString()
		sections[i] = s
	}
	return Applied{
		TemplateID: t.ID,
		ShopName:   shopName,
		BrandColor: t.BrandColor,
		BrandTone:  t.BrandTone,
		Sections:   sections,
	}
}

// Blank is the layout of a shop started without a template.
func Blank(shopName string) Applied {
	return Applied{ShopName: shopName, BrandColor: BlankColor, BrandTone: BlankTone, Sections: []Section{}}
}
