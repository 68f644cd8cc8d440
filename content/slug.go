package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSlugStrip    = regexp.MustCompile(`[^a-z0-9\s_-]`)
	reSlugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify converts a title to a URL-safe slug. Accented letters are folded
// to their base letter; anything else outside [a-z0-9] is dropped or turned
// into a single hyphen. Punctuation-only input yields "".
func Slugify(text string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(folded)
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reSlugSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
