package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrMissingTranslation is returned when a key has no entry in the resolved locale.
var ErrMissingTranslation = errors.New("missing translation")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog holds the French and English message tables used by the signup
// flow. French is the product's primary language.
type Catalog struct {
	supported []language.Tag
	matcher   language.Matcher
	tables    map[language.Tag]map[string]string
}

// NewCatalog builds the catalogue with defaultLocale preferred when
// negotiation finds no match. Unknown defaults fall back to French.
func NewCatalog(defaultLocale string) *Catalog {
	tables := map[language.Tag]map[string]string{
		language.French:  french,
		language.English: english,
	}

	def := language.French
	if tag, err := language.Parse(defaultLocale); err == nil {
		base, _ := tag.Base()
		for known := range tables {
			if kb, _ := known.Base(); kb == base {
				def = known
			}
		}
	}

	supported := []language.Tag{def}
	for tag := range tables {
		if tag != def {
			supported = append(supported, tag)
		}
	}

	return &Catalog{
		supported: supported,
		matcher:   language.NewMatcher(supported),
		tables:    tables,
	}
}

// Default returns the fallback locale code.
func (c *Catalog) Default() string {
	return c.supported[0].String()
}

// Negotiate picks the best supported locale for an Accept-Language header value.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.Default()
	}
	_, idx, _ := c.matcher.Match(tags...)
	return c.supported[idx].String()
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	table := c.tables[c.resolve(locale)]
	msg, ok := table[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingTranslation, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

// Message is the lenient variant of Translate: it falls back to the default
// locale, then to the key itself.
func (c *Catalog) Message(locale, key string, args ...any) string {
	if msg, err := c.Translate(locale, key, args...); err == nil {
		return msg
	}
	if msg, err := c.Translate(c.Default(), key, args...); err == nil {
		return msg
	}
	return key
}

func (c *Catalog) resolve(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return c.supported[0]
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return c.supported[0]
	}
	_, idx, _ := c.matcher.Match(tag)
	return c.supported[idx]
}
