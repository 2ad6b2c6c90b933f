package domain

import "strings"

// Language identifies one of the two supported display languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageNepali  Language = "ne"
)

// DefaultLanguage is the fallback language for every translated value.
const DefaultLanguage = LanguageEnglish

// Languages lists the supported languages in fallback order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageNepali}
}

// ParseLanguage normalises input. Blank input resolves to English.
func ParseLanguage(value string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(value))) {
	case "", LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageNepali:
		return LanguageNepali, nil
	default:
		return "", Validationf("Unsupported language: %s", strings.TrimSpace(value))
	}
}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageNepali
}
