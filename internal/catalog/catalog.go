// Package catalog maps activity name variants to one canonical activity name.
package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Item is one catalog configuration record.
type Item struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Aliases  []string `yaml:"aliases"`
	Patterns []string `yaml:"patterns"`
}

type rule struct {
	pattern   *regexp.Regexp
	canonical string
}

// Index is the immutable alias index built from a catalog. The zero value is
// an empty index; every phrase passes through as its own canonical name.
type Index struct {
	aliases map[string]string
	kinds   map[string]string
	rules   []rule
}

var (
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	forWord     = regexp.MustCompile(`\bfor\b`)
	disallowed  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaces = regexp.MustCompile(`\s+`)
)

// NormalizeKey folds an activity phrase to its lookup form: lowercase, no
// accents, the word "for" dropped, punctuation and hyphens turned into spaces,
// whitespace collapsed.
func NormalizeKey(value string) string {
	folded, _, err := transform.String(stripAccents, value)
	if err != nil {
		folded = value
	}
	out := strings.ToLower(folded)
	out = forWord.ReplaceAllString(out, "")
	out = disallowed.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "-", " ")
	out = whitespaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Build constructs an Index. Items without a usable name are skipped, as are
// patterns that fail to compile. Later items win on alias collisions.
func Build(items []Item) *Index {
	idx := &Index{
		aliases: make(map[string]string),
		kinds:   make(map[string]string),
	}
	for _, item := range items {
		canonical := NormalizeKey(item.Name)
		if canonical == "" {
			continue
		}
		idx.aliases[canonical] = canonical
		if kind := strings.TrimSpace(item.Kind); kind != "" {
			idx.kinds[canonical] = strings.ToLower(kind)
		}
		for _, alias := range item.Aliases {
			if key := NormalizeKey(alias); key != "" {
				idx.aliases[key] = canonical
			}
		}
		for _, expr := range item.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				continue
			}
			idx.rules = append(idx.rules, rule{pattern: re, canonical: canonical})
		}
	}
	return idx
}

// Canonicalize returns the canonical activity name for phrase. Unknown
// phrases come back in normalized form; an empty result means no activity.
func (idx *Index) Canonicalize(phrase string) string {
	key := NormalizeKey(phrase)
	if key == "" || idx == nil {
		return key
	}
	if canonical, ok := idx.aliases[key]; ok {
		return canonical
	}
	for _, r := range idx.rules {
		if r.pattern.MatchString(key) {
			return r.canonical
		}
	}
	return key
}

// KindOf returns the configured kind for a canonical name, or "".
func (idx *Index) KindOf(canonical string) string {
	if idx == nil {
		return ""
	}
	return idx.kinds[canonical]
}

// Len reports the number of alias keys, canonical names included.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.aliases)
}
