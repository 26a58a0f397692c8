package directory

import (
	"strings"
	"unicode/utf8"
)

// Initials returns the first letter of every word of name ("Alice Martin" -> "AM").
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}

// SkillPreview splits skills into the first limit entries, in dataset order, and
// the number left out.
func SkillPreview(skills []string, limit int) (visible []string, hidden int) {
	if limit < 0 {
		limit = 0
	}
	if len(skills) <= limit {
		return append([]string{}, skills...), 0
	}
	return append([]string{}, skills[:limit]...), len(skills) - limit
}

// FeaturedSkills returns the first n skills of f, the ones offered as toggle
// chips.
func FeaturedSkills(f Facets, n int) []string {
	if n > len(f.Skills) {
		n = len(f.Skills)
	}
	if n < 0 {
		n = 0
	}
	return append([]string{}, f.Skills[:n]...)
}
