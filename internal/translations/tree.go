package translations

import (
	"strings"

	"github.com/goliatone/go-translations/internal/domain"
)

// buildTree nests keys by their dot segments. Keys must be sorted; on a path
// collision the earlier key keeps its slot and the later key is reported in
// conflicts. Values that resolve to an empty string are left out.
func buildTree(keys []*TranslationKey, lang domain.Language, stripPrefix string, fallback bool) (tree map[string]any, conflicts []string) {
	tree = make(map[string]any)
	for _, record := range keys {
		value := record.Translations.Value(lang, fallback)
		if value == "" {
			continue
		}
		path := record.Key
		if stripPrefix != "" {
			path = strings.TrimPrefix(path, stripPrefix)
		}
		if !insertPath(tree, strings.Split(path, "."), value) {
			conflicts = append(conflicts, record.Key)
		}
	}
	return tree, conflicts
}

func insertPath(root map[string]any, segments []string, value string) bool {
	node := root
	last := len(segments) - 1
	for i, segment := range segments {
		if i == last {
			if _, taken := node[segment]; taken {
				return false
			}
			node[segment] = value
			return true
		}
		switch next := node[segment].(type) {
		case nil:
			child := make(map[string]any)
			node[segment] = child
			node = child
		case map[string]any:
			node = next
		default:
			return false
		}
	}
	return false
}
