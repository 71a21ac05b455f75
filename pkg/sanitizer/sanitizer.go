// Package sanitizer normalizes free-text input before validation and
// persistence: whitespace collapsing for names, addresses and remarks,
// dedup for ingredient lists.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeFreeText(text string) string {
	return TrimAndNormalize(text)
}

func NormalizeRemarks(remarks string) string {
	return TrimAndNormalize(remarks)
}

func NormalizeAddressField(field string) string {
	return TrimAndNormalize(field)
}

// NormalizeIngredient lowercases so "Basil" and "basil" dedupe to one
// entry in the ingredient list.
func NormalizeIngredient(ingredient string) string {
	return strings.ToLower(TrimAndNormalize(ingredient))
}
