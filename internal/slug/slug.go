// Package slug builds URL-safe, Persian-aware product slugs. Persian letters
// are valid URL path segments once percent-encoded, so they are kept as-is;
// only ASCII punctuation that breaks URLs is stripped.
package slug

import (
	"fmt"
	"strings"
)

const fallback = "محصول"

// Generate turns a product name into a slug: whitespace collapses to single
// hyphens, URL-hostile punctuation is dropped and runs of hyphens are
// squeezed. An empty result falls back to the generic product word.
func Generate(name string) string {
	fields := strings.Fields(name)
	s := strings.Join(fields, "-")

	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`!@#$%^&*()+=[]{}|\:;"'<>,.?/`, r) {
			return -1
		}
		return r
	}, s)

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		return fallback
	}
	return s
}

// ForProduct combines the name slug with the product ID for uniqueness.
// Names that slugify to fewer than two runes use the ID-only fallback form.
func ForProduct(name string, id int) string {
	s := Generate(name)
	if s == fallback || len([]rune(s)) < 2 {
		return fmt.Sprintf("%s-%d", fallback, id)
	}
	return fmt.Sprintf("%s-%d", s, id)
}
