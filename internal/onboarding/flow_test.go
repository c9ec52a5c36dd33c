package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrishop/storegen/internal/logging"
)

type recordingNavigator struct {
	handoffs []Handoff
}

func (n *recordingNavigator) Navigate(_ context.Context, h Handoff) error {
	n.handoffs = append(n.handoffs, h)
	return nil
}

type fakeShops struct {
	mu         sync.Mutex
	owner      string
	payload    Payload
	err        error
	provisions int
}

func (f *fakeShops) Provision(_ context.Context, ownerID string, p Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.provisions++
	f.owner, f.payload = ownerID, p
	return "shop-1", nil
}

func (f *fakeShops) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.provisions
}

type fakeChooser struct {
	options []TemplateOption
}

func (f fakeChooser) Suggest(_ context.Context, _ Summary) ([]TemplateOption, error) {
	return f.options, nil
}

func (f fakeChooser) Resolve(_ context.Context, id string) (TemplateOption, error) {
	for _, o := range f.options {
		if o.ID == id {
			return o, nil
		}
	}
	return TemplateOption{}, ErrUnknownTemplate
}

var testTemplates = fakeChooser{options: []TemplateOption{
	{ID: "fashion-elegant", Name: "Mode Élégante", Category: "fashion"},
	{ID: "minimal-clean", Name: "Minimaliste", Category: "general"},
}}

func TestNextScreen(t *testing.T) {
	assert.Equal(t, ScreenConfirmEmail, NextScreen(Outcome{Kind: OutcomeEmailConfirmationRequired}))
	assert.Equal(t, ScreenTemplateSelection, NextScreen(Outcome{Kind: OutcomeSessionEstablished}))
	assert.Equal(t, ScreenAccount, NextScreen(Outcome{Kind: OutcomeFailed}))
}

func TestAcknowledgeGoesToLogin(t *testing.T) {
	nav := &recordingNavigator{}
	f := NewFlow(nav, nil, nil, logging.Discard())

	h, err := f.Acknowledge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Handoff{Destination: DestinationLogin}, h)
	assert.Equal(t, []Handoff{h}, nav.handoffs)
}

func TestCompleteTemplateSelection(t *testing.T) {
	established := Outcome{Kind: OutcomeSessionEstablished, AccountID: "u-1", Session: &Session{UserID: "u-1"}}

	t.Run("with template", func(t *testing.T) {
		nav := &recordingNavigator{}
		shops := &fakeShops{}
		f := NewFlow(nav, shops, testTemplates, logging.Discard())

		h, err := f.CompleteTemplateSelection(context.Background(), filledState(), established, "fashion-elegant")
		require.NoError(t, err)

		want := Handoff{
			Destination: DestinationBuilder,
			ShopID:      "shop-1",
			Refresh:     true,
			Payload: &Payload{
				ProductLink: "https://www.aliexpress.com/item/123",
				Marketplace: MarketplaceAliExpress,
				BrandTone:   "modern",
				BrandColor:  "#ea580c",
				ShopName:    "Ma Boutique",
				ShopNiche:   "fashion",
				Template:    &TemplateRef{ID: "fashion-elegant", Name: "Mode Élégante"},
			},
		}
		if diff := cmp.Diff(want, h); diff != "" {
			t.Fatalf("handoff mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "u-1", shops.owner)
		assert.Equal(t, *want.Payload, shops.payload)
		assert.Len(t, nav.handoffs, 1)
	})

	t.Run("blank", func(t *testing.T) {
		f := NewFlow(nil, &fakeShops{}, testTemplates, logging.Discard())
		h, err := f.CompleteTemplateSelection(context.Background(), filledState(), established, "")
		require.NoError(t, err)
		require.NotNil(t, h.Payload)
		assert.Nil(t, h.Payload.Template)
	})

	t.Run("unknown template", func(t *testing.T) {
		f := NewFlow(nil, &fakeShops{}, testTemplates, logging.Discard())
		_, err := f.CompleteTemplateSelection(context.Background(), filledState(), established, "nope")
		assert.ErrorIs(t, err, ErrUnknownTemplate)
	})

	t.Run("requires session", func(t *testing.T) {
		f := NewFlow(nil, nil, testTemplates, logging.Discard())
		_, err := f.CompleteTemplateSelection(context.Background(), filledState(), Outcome{Kind: OutcomeEmailConfirmationRequired}, "")
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("provisioning failure", func(t *testing.T) {
		nav := &recordingNavigator{}
		f := NewFlow(nav, &fakeShops{err: errors.New("db down")}, testTemplates, logging.Discard())
		_, err := f.CompleteTemplateSelection(context.Background(), filledState(), established, "")
		assert.Error(t, err)
		assert.Empty(t, nav.handoffs)
	})
}

func TestPayloadExcludesAccountData(t *testing.T) {
	p := NewPayload(filledState(), nil)
	assert.Equal(t, Summary{ShopName: "Ma Boutique", Niche: "fashion", Tone: "modern", Color: "#ea580c"}, SummaryOf(filledState()))
	assert.Equal(t, "Ma Boutique", p.ShopName)
	assert.Nil(t, p.Template)
}
