package onboarding

import "strings"

// Fields is the data one step collects. The set of implementations is closed:
// each bag belongs to exactly one step and its validator only sees that bag.
type Fields interface {
	Step() StepID
	Satisfied() bool
	isFields()
}

// ProductFields is collected by step 1.
type ProductFields struct {
	ProductLink string `json:"product_link"`
}

// BrandFields is collected by step 2.
type BrandFields struct {
	Tone  string `json:"tone"`
	Color string `json:"color"`
}

// ShopFields is collected by step 3.
type ShopFields struct {
	Name  string `json:"name"`
	Niche string `json:"niche"`
}

// AccountFields is collected by step 4.
type AccountFields struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	Password string `json:"password,omitempty"`
}

func (ProductFields) Step() StepID { return StepProduct }
func (BrandFields) Step() StepID   { return StepBrand }
func (ShopFields) Step() StepID    { return StepShop }
func (AccountFields) Step() StepID { return StepAccount }

func (ProductFields) isFields() {}
func (BrandFields) isFields()   {}
func (ShopFields) isFields()    {}
func (AccountFields) isFields() {}

// Satisfied holds when the link points at a recognised marketplace.
func (f ProductFields) Satisfied() bool {
	return ValidProductLink(f.ProductLink)
}

// Satisfied holds when both a tone and a colour are selected.
func (f BrandFields) Satisfied() bool {
	return notBlank(f.Tone) && notBlank(f.Color)
}

// Satisfied holds when the shop has a name and a niche.
func (f ShopFields) Satisfied() bool {
	return notBlank(f.Name) && notBlank(f.Niche)
}

// Satisfied holds when every identity field is filled and the password is strong.
func (f AccountFields) Satisfied() bool {
	return notBlank(f.FullName) &&
		notBlank(f.Email) &&
		notBlank(f.Country) &&
		notBlank(f.Phone) &&
		EvaluatePassword(f.Password).Valid
}

// Redacted returns a copy without the password.
func (f AccountFields) Redacted() AccountFields {
	f.Password = ""
	return f
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
