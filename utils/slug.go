package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugSuffixLen = 6

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases title, folds accents and joins alphanumeric runs with '-'.
func Slugify(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Slug builds the listing slug from its title and the last six characters of its id.
func Slug(title, id string) string {
	suffix := id
	if len(suffix) > slugSuffixLen {
		suffix = suffix[len(suffix)-slugSuffixLen:]
	}
	base := Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
