package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/afrishop/storegen/internal/onboarding"
)

// Chooser serves the catalogue to the onboarding flow.
type Chooser struct {
	catalog *Catalog
}

// NewChooser adapts a catalogue to onboarding.TemplateChooser.
func NewChooser(catalog *Catalog) *Chooser {
	return &Chooser{catalog: catalog}
}

// Suggest implements onboarding.TemplateChooser.
func (c *Chooser) Suggest(_ context.Context, s onboarding.Summary) ([]onboarding.TemplateOption, error) {
	ranked := c.catalog.Suggest(s.Niche, s.Tone)
	out := make([]onboarding.TemplateOption, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, option(t))
	}
	return out, nil
}

// Resolve implements onboarding.TemplateChooser.
func (c *Chooser) Resolve(_ context.Context, id string) (onboarding.TemplateOption, error) {
	t, err := c.catalog.Get(id)
	if errors.Is(err, ErrNotFound) {
		return onboarding.TemplateOption{}, fmt.Errorf("%w: %s", onboarding.ErrUnknownTemplate, id)
	}
	if err != nil {
		return onboarding.TemplateOption{}, err
	}
	return option(t), nil
}

func option(t Template) onboarding.TemplateOption {
	return onboarding.TemplateOption{ID: t.ID, Name: t.Name, Description: t.Description, Category: t.Category}
}

var _ onboarding.TemplateChooser = (*Chooser)(nil)
