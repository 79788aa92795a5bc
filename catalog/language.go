package catalog

import (
	"fmt"

	"golang.org/x/text/language"
)

// Language is an upstream language code such as "en-US".
type Language string

const (
	English Language = "en-US"
	Spanish Language = "es-ES"
)

// DefaultLanguage is used when no preference has been stored.
const DefaultLanguage = Spanish

// SupportedLanguages lists the languages the catalog is served in.
var SupportedLanguages = []Language{English, Spanish}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.MustParse(string(English)),
	language.MustParse(string(Spanish)),
})

// ParseLanguage normalizes a BCP 47 code to one of SupportedLanguages.
// Bare codes like "es" or "en-GB" resolve to the closest supported region.
func ParseLanguage(code string) (Language, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", code, err)
	}
	_, idx, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("unsupported language %q", code)
	}
	return SupportedLanguages[idx], nil
}

// Short returns the two letter base language, e.g. "es" for "es-ES".
func (l Language) Short() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	base, _ := tag.Base()
	return base.String()
}
