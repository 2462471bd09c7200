package refrow

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/smartcatalog/internal/patterns"
	"github.com/tsawler/smartcatalog/textnorm"
)

// equivalentMarkers end the part of a description that names the brand:
// whatever follows ("... or equivalent") lists substitutes.
var equivalentMarkers = []string{"hoặc tương đương", "or equivalent"}

// matchTokens folds s and splits it on every non-alphanumeric rune, so
// "Förster–Ballenger" becomes [forster ballenger].
func matchTokens(s string) []string {
	return strings.FieldsFunc(textnorm.Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// BrandMatcher finds known brand names inside free-text descriptions.
// Matching is accent and case insensitive and works on whole tokens, so
// "allen" never matches inside "forster-ballenger".
type BrandMatcher struct {
	brands []knownBrand
}

type knownBrand struct {
	name   string
	tokens []string
	length int
}

// NewBrandMatcher prepares brands for matching. Brands with more tokens,
// then longer names, are tried first.
func NewBrandMatcher(brands []string) *BrandMatcher {
	m := &BrandMatcher{}
	for _, b := range brands {
		toks := matchTokens(b)
		if len(toks) == 0 {
			continue
		}
		m.brands = append(m.brands, knownBrand{
			name:   strings.TrimSpace(b),
			tokens: toks,
			length: len(strings.Join(toks, " ")),
		})
	}
	sort.SliceStable(m.brands, func(i, j int) bool {
		a, b := m.brands[i], m.brands[j]
		if len(a.tokens) != len(b.tokens) {
			return len(a.tokens) > len(b.tokens)
		}
		return a.length > b.length
	})
	return m
}

// Len returns the number of known brands
func (m *BrandMatcher) Len() int {
	return len(m.brands)
}

// Match returns the known brand named in text, or "" if none is.
func (m *BrandMatcher) Match(text string) string {
	if m == nil || len(m.brands) == 0 || text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, marker := range equivalentMarkers {
		if i := strings.Index(lower, marker); i >= 0 {
			lower = lower[:i]
		}
	}
	toks := matchTokens(lower)
	for _, b := range m.brands {
		if indexTokens(toks, b.tokens) >= 0 {
			return b.name
		}
	}
	return ""
}

// indexTokens returns the position of the first run of needle inside
// haystack, or -1.
func indexTokens(haystack, needle []string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// removeBrand drops the brand tokens from a description and returns the
// rest in folded form. The original description is returned when nothing
// would remain.
func removeBrand(desc, brand string) string {
	if brand == "" {
		return desc
	}
	toks := matchTokens(desc)
	bt := matchTokens(brand)
	i := indexTokens(toks, bt)
	if len(bt) == 0 || i < 0 {
		return desc
	}
	rest := append(append([]string{}, toks[:i]...), toks[i+len(bt):]...)
	if len(rest) == 0 {
		return desc
	}
	return strings.Join(rest, " ")
}

// extractShape returns the first shape word of text, lowercased.
func extractShape(text string) string {
	m := patterns.Get(patterns.ShapeWord).FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// extractDimensions returns the distinct dimension mentions of text, in
// order, joined with ", ".
func extractDimensions(text string) string {
	found := patterns.Get(patterns.DimensionMention).FindAllString(text, -1)
	seen := make(map[string]bool, len(found))
	var out []string
	for _, f := range found {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return strings.Join(out, ", ")
}

// joinDescription joins the two description columns with ", ".
func joinDescription(d1, d2 string) string {
	switch {
	case d1 == "":
		return d2
	case d2 == "":
		return d1
	}
	return d1 + ", " + d2
}
