// Package slug derives URL path segments from catalog names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Letters that carry no combining mark once decomposed.
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "ł", "l", "đ", "d", "ı", "i",
)

// Generate creates a URL-friendly slug from name. Accents are stripped
// ("Crème Brûlée" -> "creme-brulee") and every other run of non-alphanumeric
// characters becomes a single hyphen.
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = ligatures.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
