package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EmptySlug is returned by Slug when nothing is left after normalization.
const EmptySlug = "sin-titulo"

// Slug turns a title into a stable identifier: accents are stripped, runs
// of anything that is not an ASCII letter or digit become a single dash,
// and the result is lower-cased.
func Slug(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return EmptySlug
	}
	return out
}

// BlockID identifies an itinerary block (one day) for notes:
// "<date>-<slug(title)>".
func BlockID(date, title string) string {
	return date + "-" + Slug(title)
}

// ActivityID identifies an activity within a day.
func ActivityID(date string, index int) string {
	return fmt.Sprintf("%s-%d", date, index)
}
