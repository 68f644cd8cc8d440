package content

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the flat key/value header of a content document. Values are
// kept as written; keys nobody reads are retained anyway.
type FrontMatter map[string]string

// Get returns the value for key, or "" when absent.
func (fm FrontMatter) Get(key string) string {
	return fm[key]
}

// colonPairs is a "---" delimited block of "key: value" lines. It replaces
// the YAML decoder so values are never coerced or rejected.
var colonPairs = frontmatter.NewFormat("---", "---", unmarshalColonPairs)

func unmarshalColonPairs(data []byte, v interface{}) error {
	fm, ok := v.(*FrontMatter)
	if !ok {
		return fmt.Errorf("front matter: unsupported target %T", v)
	}
	if *fm == nil {
		*fm = FrontMatter{}
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		// Only the first colon separates; the rest belong to the value.
		(*fm)[key] = strings.TrimSpace(value)
	}
	return nil
}

// ParseFrontMatter splits doc into its header and body. A document without a
// complete header comes back unchanged with an empty map.
func ParseFrontMatter(doc string) (FrontMatter, string) {
	fm := FrontMatter{}
	body, err := frontmatter.Parse(strings.NewReader(doc), &fm, colonPairs)
	if err != nil {
		return FrontMatter{}, doc
	}
	return fm, string(body)
}
