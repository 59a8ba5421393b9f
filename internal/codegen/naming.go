package codegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// PascalCase joins parts into one PascalCase identifier. Snake segments
// inside a part are split first, so "play_area" becomes "PlayArea".
func PascalCase(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		for _, seg := range strings.Split(part, "_") {
			if seg == "" {
				continue
			}
			b.WriteString(titleCaser.String(seg))
		}
	}
	return b.String()
}

// SnakeCase converts an identifier to snake_case, splitting on case
// boundaries: "PlayerID" becomes "player_id".
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && runes[i-1] != '_' && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ScreamingCase converts an identifier to SCREAMING_SNAKE_CASE.
func ScreamingCase(name string) string {
	return strings.ToUpper(SnakeCase(name))
}
