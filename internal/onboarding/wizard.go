package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotCurrentStep is returned when a step's fields are edited while another
// step is on screen.
var ErrNotCurrentStep = errors.New("fields do not belong to the current step")

// State is the wizard's data: the step on screen plus one bag per step.
type State struct {
	Current StepID        `json:"current"`
	Product ProductFields `json:"product"`
	Brand   BrandFields   `json:"brand"`
	Shop    ShopFields    `json:"shop"`
	Account AccountFields `json:"account"`
}

// NewState returns the initial state: step 1 with the default brand colour
// pre-selected.
func NewState() State {
	return State{
		Current: FirstStep,
		Brand:   BrandFields{Color: DefaultBrandColor},
	}
}

// FieldsFor returns the bag owned by step.
func (s State) FieldsFor(step StepID) (Fields, error) {
	switch step {
	case StepProduct:
		return s.Product, nil
	case StepBrand:
		return s.Brand, nil
	case StepShop:
		return s.Shop, nil
	case StepAccount:
		return s.Account, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
}

// Satisfied runs step's validator against its own bag.
func Satisfied(step StepID, s State) bool {
	f, err := s.FieldsFor(step)
	if err != nil {
		return false
	}
	return f.Satisfied()
}

// Wizard sequences the four steps. Forward moves are guarded by the current
// step's validator; backward moves are not guarded.
type Wizard struct {
	state State
}

// NewWizard starts a fresh wizard.
func NewWizard() *Wizard {
	return &Wizard{state: NewState()}
}

// Resume rebuilds a wizard from a persisted state.
func Resume(s State) (*Wizard, error) {
	if !s.Current.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, int(s.Current))
	}
	return &Wizard{state: s}, nil
}

// State returns a copy of the current state.
func (w *Wizard) State() State {
	return w.state
}

// Current returns the step on screen.
func (w *Wizard) Current() StepID {
	return w.state.Current
}

// CanAdvance reports whether the current step's validator holds.
func (w *Wizard) CanAdvance() bool {
	return Satisfied(w.state.Current, w.state)
}

// CanSubmit reports whether the terminal step is reached and satisfied.
func (w *Wizard) CanSubmit() bool {
	return w.state.Current == LastStep && w.CanAdvance()
}

// Advance moves to the next step when allowed. A refused move is not an
// error; it leaves the state untouched and returns false.
func (w *Wizard) Advance() bool {
	if w.state.Current >= LastStep || !w.CanAdvance() {
		return false
	}
	w.state.Current++
	return true
}

// Retreat moves to the previous step unless already on the first one.
func (w *Wizard) Retreat() bool {
	if w.state.Current <= FirstStep {
		return false
	}
	w.state.Current--
	return true
}

// Update replaces the bag of the current step. Free-text values are trimmed
// of surrounding whitespace except the password, which is kept verbatim.
func (w *Wizard) Update(f Fields) error {
	if f == nil {
		return fmt.Errorf("%w: nil fields", ErrInvalidStep)
	}
	if f.Step() != w.state.Current {
		return fmt.Errorf("%w: got %s, on %s", ErrNotCurrentStep, f.Step(), w.state.Current)
	}

	switch v := f.(type) {
	case ProductFields:
		v.ProductLink = strings.TrimSpace(v.ProductLink)
		w.state.Product = v
	case BrandFields:
		v.Tone = strings.TrimSpace(v.Tone)
		v.Color = strings.TrimSpace(v.Color)
		w.state.Brand = v
	case ShopFields:
		v.Name = strings.TrimSpace(v.Name)
		v.Niche = strings.TrimSpace(v.Niche)
		w.state.Shop = v
	case AccountFields:
		v.FullName = strings.TrimSpace(v.FullName)
		v.Email = strings.ToLower(strings.TrimSpace(v.Email))
		v.Country = strings.TrimSpace(v.Country)
		v.Phone = NormalizePhone(v.Country, v.Phone)
		w.state.Account = v
	}
	return nil
}

// ClearPassword drops the password once it has been handed to the account service.
func (w *Wizard) ClearPassword() {
	w.state.Account.Password = ""
}
