package localizer

import (
	"encoding/json"

	"github.com/goliatone/go-translations/internal/domain"
)

// Localize replaces every multilingual leaf in content with its text in lang.
// Structs and typed collections are normalised through their JSON encoding;
// values that cannot be encoded are returned unchanged.
func Localize(content any, lang domain.Language) any {
	return localizeValue(normalize(content), lang)
}

func normalize(content any) any {
	switch content.(type) {
	case nil, string, bool, float64, int, int64, map[string]any, []any:
		return content
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return content
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return content
	}
	return out
}

func localizeValue(value any, lang domain.Language) any {
	switch v := value.(type) {
	case map[string]any:
		if text, ok := multilingualText(v, lang); ok {
			return text
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = localizeValue(normalize(item), lang)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = localizeValue(normalize(item), lang)
		}
		return out
	}
	return value
}

// multilingualText reports whether m is a {en, ne?} leaf and returns the text
// chosen for lang.
func multilingualText(m map[string]any, lang domain.Language) (string, bool) {
	if len(m) == 0 || len(m) > 2 {
		return "", false
	}
	en, ok := m["en"].(string)
	if !ok {
		return "", false
	}
	var ne string
	for key, value := range m {
		switch key {
		case "en":
		case "ne":
			if value == nil {
				continue
			}
			s, ok := value.(string)
			if !ok {
				return "", false
			}
			ne = s
		default:
			return "", false
		}
	}
	if lang == domain.LanguageNepali && ne != "" {
		return ne, true
	}
	return en, true
}
