package onboarding

import (
	"errors"
	"fmt"
)

// StepID identifies one screen of the signup wizard.
type StepID int

const (
	StepProduct StepID = iota + 1
	StepBrand
	StepShop
	StepAccount
)

const (
	FirstStep = StepProduct
	LastStep  = StepAccount
)

// ErrInvalidStep is returned for step identifiers outside [FirstStep, LastStep].
var ErrInvalidStep = errors.New("invalid step")

// Valid reports whether s is one of the wizard's steps.
func (s StepID) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s StepID) String() string {
	switch s {
	case StepProduct:
		return "product"
	case StepBrand:
		return "brand"
	case StepShop:
		return "shop"
	case StepAccount:
		return "account"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// StepDefinition is the static description of a wizard step.
type StepDefinition struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var stepDefinitions = [...]StepDefinition{
	{ID: StepProduct, Title: "Produit", Description: "Lien du produit"},
	{ID: StepBrand, Title: "Style", Description: "Ton de la marque"},
	{ID: StepShop, Title: "Boutique", Description: "Informations"},
	{ID: StepAccount, Title: "Compte", Description: "Inscription"},
}

// Steps returns the ordered step definitions.
func Steps() []StepDefinition {
	out := make([]StepDefinition, len(stepDefinitions))
	copy(out, stepDefinitions[:])
	return out
}

// ParseStep converts a 1-based step number into a StepID.
func ParseStep(n int) (StepID, error) {
	s := StepID(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, n)
	}
	return s, nil
}
