// Package slugs provides the slugification strategies used for anchor
// matching.
//
// Two strategies exist on purpose:
//   - Heading slugs: fragment IDs generated from markdown headings, using a
//     conservative ASCII-ish transformation.
//   - Component slugs: filename/path components, built on gosimple/slug.
//
// Anchor verification accepts a fragment when it matches a heading under
// either strategy, since both forms appear in the wild.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// HeadingSlug converts heading text to a URL-friendly fragment id.
func HeadingSlug(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// ComponentSlug converts a string to a URL-safe slug for path components.
func ComponentSlug(s string) string {
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// MatchesHeading reports whether fragment identifies the given heading text
// under either slug strategy.
func MatchesHeading(fragment, heading string) bool {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return false
	}
	return fragment == HeadingSlug(heading) || fragment == ComponentSlug(heading)
}
