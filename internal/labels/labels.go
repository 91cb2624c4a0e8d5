package labels

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Default converts a field name into a human-friendly label. It splits on
// underscores, dashes, dots and camelCase boundaries and title-cases each word.
// Dotted paths only use their last segment.
func Default(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return ""
	}

	words := strings.Fields(strcase.ToDelimited(name, ' '))
	segments := make([]string, 0, len(words))
	for _, word := range words {
		segments = append(segments, titleCase(word))
	}
	return strings.Join(segments, " ")
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
