package onboarding

import "strings"

// Choice is a selectable option offered by a step.
type Choice struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Country is a step 4 country option with its phone conventions.
type Country struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	PhoneCode   string `json:"phone_code"`
	PhoneFormat string `json:"phone_format"`
}

// DefaultBrandColor is pre-selected when a wizard starts.
const DefaultBrandColor = "#ea580c"

var tones = []Choice{
	{Value: "modern", Label: "Moderne", Description: "Design épuré et contemporain"},
	{Value: "elegant", Label: "Élégant", Description: "Sophistiqué et raffiné"},
	{Value: "professional", Label: "Professionnel", Description: "Sérieux et corporate"},
	{Value: "dynamic", Label: "Dynamique", Description: "Énergique et vibrant"},
	{Value: "playful", Label: "Ludique", Description: "Fun et créatif"},
	{Value: "natural", Label: "Naturel", Description: "Bio et écologique"},
}

var palette = []Choice{
	{Value: "#ea580c", Label: "Orange Afrique"},
	{Value: "#0ea5e9", Label: "Bleu Océan"},
	{Value: "#8b5cf6", Label: "Violet Royal"},
	{Value: "#10b981", Label: "Vert Nature"},
	{Value: "#ef4444", Label: "Rouge Passion"},
	{Value: "#ec4899", Label: "Rose Moderne"},
	{Value: "#f59e0b", Label: "Jaune Soleil"},
	{Value: "#64748b", Label: "Gris Élégant"},
}

var niches = []Choice{
	{Value: "fashion", Label: "Mode & Vêtements"},
	{Value: "beauty", Label: "Beauté & Cosmétiques"},
	{Value: "electronics", Label: "Électronique & Gadgets"},
	{Value: "home", Label: "Maison & Décoration"},
	{Value: "sports", Label: "Sports & Fitness"},
	{Value: "jewelry", Label: "Bijoux & Accessoires"},
	{Value: "kids", Label: "Enfants & Bébés"},
	{Value: "health", Label: "Santé & Bien-être"},
	{Value: "pets", Label: "Animaux de compagnie"},
	{Value: "other", Label: "Autre"},
}

var countries = []Country{
	{Code: "tg", Label: "Togo", PhoneCode: "+228", PhoneFormat: "+228 90 12 34 56"},
	{Code: "ci", Label: "Côte d'Ivoire", PhoneCode: "+225", PhoneFormat: "+225 07 12 34 56 78"},
	{Code: "sn", Label: "Sénégal", PhoneCode: "+221", PhoneFormat: "+221 77 123 45 67"},
	{Code: "bj", Label: "Bénin", PhoneCode: "+229", PhoneFormat: "+229 97 12 34 56"},
	{Code: "ml", Label: "Mali", PhoneCode: "+223", PhoneFormat: "+223 70 12 34 56"},
	{Code: "bf", Label: "Burkina Faso", PhoneCode: "+226", PhoneFormat: "+226 70 12 34 56"},
	{Code: "ne", Label: "Niger", PhoneCode: "+227", PhoneFormat: "+227 90 12 34 56"},
	{Code: "other", Label: "Autre", PhoneCode: "+000", PhoneFormat: "+000 00 00 00 00"},
}

func Tones() []Choice      { return append([]Choice(nil), tones...) }
func Palette() []Choice    { return append([]Choice(nil), palette...) }
func Niches() []Choice     { return append([]Choice(nil), niches...) }
func Countries() []Country { return append([]Country(nil), countries...) }

// LookupCountry finds a country option by code.
func LookupCountry(code string) (Country, bool) {
	for _, c := range countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// NormalizePhone keeps the selected country's dialing code in front of the
// number the user typed. Unknown countries leave the input untouched.
func NormalizePhone(countryCode, raw string) string {
	raw = strings.TrimSpace(raw)
	c, ok := LookupCountry(countryCode)
	if !ok || raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, c.PhoneCode) {
		return raw
	}
	return c.PhoneCode + " " + strings.TrimSpace(strings.Replace(raw, c.PhoneCode, "", 1))
}
