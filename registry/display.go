package registry

import (
	"reflect"
	"regexp"
	"strings"
)

var (
	consecutiveCaps = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerToUpper    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// titleCase converts a CamelCase type name to a spaced title:
// "HTTPServer" -> "HTTP Server", "TimeAndMaterials" -> "Time And Materials".
func titleCase(text string) string {
	text = consecutiveCaps.ReplaceAllString(text, "$1 $2")
	text = lowerToUpper.ReplaceAllString(text, "$1 $2")

	words := strings.Split(text, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// displayName derives the label for a record: the record's own DisplayName,
// then the registry-level override, then the title-cased base type name.
func (r *Registry) displayName(rec Record) string {
	if rec.DisplayName != "" {
		return rec.DisplayName
	}
	if r.labelFrom != nil {
		if label := r.labelFrom(rec); label != "" {
			return label
		}
	}
	t := rec.Type
	if t == nil {
		return titleCase(rec.Slug)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return titleCase(t.Name())
}
