package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/afrishop/storegen/internal/logging"
)

var (
	// ErrNoSession is returned when template selection is attempted without
	// an authenticated session.
	ErrNoSession = errors.New("template selection requires an established session")
	// ErrUnknownTemplate is returned by a TemplateChooser for ids it does not know.
	ErrUnknownTemplate = errors.New("unknown template")
)

// Screen is what the user sees after a submission.
type Screen string

const (
	ScreenAccount           Screen = "account"
	ScreenConfirmEmail      Screen = "confirm_email"
	ScreenTemplateSelection Screen = "template_selection"
)

// NextScreen maps a submission outcome to the screen that follows it. A
// failure keeps the user on the account step.
func NextScreen(o Outcome) Screen {
	switch o.Kind {
	case OutcomeEmailConfirmationRequired:
		return ScreenConfirmEmail
	case OutcomeSessionEstablished:
		return ScreenTemplateSelection
	default:
		return ScreenAccount
	}
}

// Destination is a location outside the wizard.
type Destination string

const (
	DestinationLogin   Destination = "/login"
	DestinationBuilder Destination = "/builder"
)

// TemplateRef identifies the starter template picked by the user.
type TemplateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payload is the wizard data carried to the shop builder.
type Payload struct {
	ProductLink string       `json:"product_link"`
	Marketplace Marketplace  `json:"marketplace"`
	BrandTone   string       `json:"brand_tone"`
	BrandColor  string       `json:"brand_color"`
	ShopName    string       `json:"shop_name"`
	ShopNiche   string       `json:"shop_niche"`
	Template    *TemplateRef `json:"template,omitempty"`
}

// NewPayload copies steps 1 to 3 of the state. Account data never leaves the wizard.
func NewPayload(s State, tpl *TemplateRef) Payload {
	marketplace, _ := DetectMarketplace(s.Product.ProductLink)
	return Payload{
		ProductLink: s.Product.ProductLink,
		Marketplace: marketplace,
		BrandTone:   s.Brand.Tone,
		BrandColor:  s.Brand.Color,
		ShopName:    s.Shop.Name,
		ShopNiche:   s.Shop.Niche,
		Template:    tpl,
	}
}

// Handoff is the wizard's final act: where to go and what to carry.
type Handoff struct {
	Destination Destination `json:"destination"`
	ShopID      string      `json:"shop_id,omitempty"`
	Payload     *Payload    `json:"payload,omitempty"`
	Refresh     bool        `json:"refresh"`
}

// Navigator performs a hand-off.
type Navigator interface {
	Navigate(ctx context.Context, h Handoff) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, h Handoff) error

func (f NavigatorFunc) Navigate(ctx context.Context, h Handoff) error { return f(ctx, h) }

// ShopProvisioner creates the draft shop the builder opens.
type ShopProvisioner interface {
	Provision(ctx context.Context, ownerID string, p Payload) (string, error)
}

// Summary is what the template chooser sees of the wizard.
type Summary struct {
	ShopName string `json:"shop_name"`
	Niche    string `json:"niche"`
	Tone     string `json:"tone"`
	Color    string `json:"color"`
}

// SummaryOf extracts the template chooser input from a state.
func SummaryOf(s State) Summary {
	return Summary{ShopName: s.Shop.Name, Niche: s.Shop.Niche, Tone: s.Brand.Tone, Color: s.Brand.Color}
}

// TemplateOption is one suggestion offered after signup.
type TemplateOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TemplateChooser suggests starter templates and resolves the user's pick.
type TemplateChooser interface {
	Suggest(ctx context.Context, s Summary) ([]TemplateOption, error)
	Resolve(ctx context.Context, id string) (TemplateOption, error)
}

// Flow runs the screens that follow a successful submission.
type Flow struct {
	nav       Navigator
	shops     ShopProvisioner
	templates TemplateChooser
	logger    *slog.Logger
}

// NewFlow wires the post-submit flow. shops and templates may be nil, in
// which case the hand-off carries no shop and only the blank template exists.
func NewFlow(nav Navigator, shops ShopProvisioner, templates TemplateChooser, logger *slog.Logger) *Flow {
	return &Flow{nav: nav, shops: shops, templates: templates, logger: logging.Component(logger, "onboarding.flow")}
}

// Acknowledge dismisses the confirmation notice and sends the user to login.
func (f *Flow) Acknowledge(ctx context.Context) (Handoff, error) {
	h := Handoff{Destination: DestinationLogin}
	return h, f.navigate(ctx, h)
}

// Suggestions lists the templates offered for state.
func (f *Flow) Suggestions(ctx context.Context, s State) ([]TemplateOption, error) {
	if f.templates == nil {
		return nil, nil
	}
	return f.templates.Suggest(ctx, SummaryOf(s))
}

// CompleteTemplateSelection closes the flow after the template screen. An
// empty choice means the user skipped and starts from a blank shop.
func (f *Flow) CompleteTemplateSelection(ctx context.Context, s State, o Outcome, choice string) (Handoff, error) {
	if o.Kind != OutcomeSessionEstablished || o.Session == nil {
		return Handoff{}, ErrNoSession
	}

	var ref *TemplateRef
	if choice != "" {
		if f.templates == nil {
			return Handoff{}, fmt.Errorf("resolve template %q: no catalogue configured", choice)
		}
		opt, err := f.templates.Resolve(ctx, choice)
		if err != nil {
			return Handoff{}, fmt.Errorf("resolve template %q: %w", choice, err)
		}
		ref = &TemplateRef{ID: opt.ID, Name: opt.Name}
	}

	payload := NewPayload(s, ref)
	h := Handoff{Destination: DestinationBuilder, Payload: &payload, Refresh: true}

	if f.shops != nil {
		shopID, err := f.shops.Provision(ctx, o.Session.UserID, payload)
		if err != nil {
			return Handoff{}, fmt.Errorf("provision shop: %w", err)
		}
		h.ShopID = shopID
	}

	return h, f.navigate(ctx, h)
}

func (f *Flow) navigate(ctx context.Context, h Handoff) error {
	f.logger.Info("handoff", slog.String("destination", string(h.Destination)), slog.String("shop_id", h.ShopID))
	if f.nav == nil {
		return nil
	}
	return f.nav.Navigate(ctx, h)
}
