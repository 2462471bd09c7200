// Package textnorm provides the text normalization shared by the extraction
// and matching engines: dash folding, whitespace collapsing, diacritic
// stripping, brand keys, tokenization and catalog code canonicalization.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/smartcatalog/internal/patterns"
)

// hyphenFolder maps the hyphen-like characters found in catalog PDFs to a
// plain ASCII hyphen.
var hyphenFolder = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"−", "-", // minus sign
)

// FoldHyphens replaces hyphen variants with '-'.
func FoldHyphens(s string) string {
	return hyphenFolder.Replace(s)
}

// CollapseSpaces trims s and collapses internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SpanText is the normalization applied to every span as it is collected.
func SpanText(s string) string {
	return strings.TrimSpace(FoldHyphens(s))
}

// StripDiacritics removes combining marks after canonical decomposition,
// so "Förster" becomes "Forster".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// BrandKey returns the comparison key used for exact brand filtering:
// diacritics stripped, lowercased, and every non-alphanumeric removed.
func BrandKey(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold lowercases s and strips diacritics. It is the normalization applied
// to both sides of token similarity scoring.
func Fold(s string) string {
	return strings.ToLower(StripDiacritics(s))
}

// Tokenize folds s and splits it on everything except letters, digits, '-'
// and '+'.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '+')
	})
}

// NormalizeCode canonicalizes any spelling of a catalog code (dash variants,
// spaces around dashes) to NN-NNN-NN. It reports false when s holds no code.
func NormalizeCode(s string) (string, bool) {
	m := patterns.Get(patterns.CodeLoose).FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1] + "-" + m[2] + "-" + m[3], true
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// HasDigit reports whether s contains at least one digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// UpperRatio returns the share of letters in s that are uppercase, or 0 when
// s has no letters.
func UpperRatio(s string) float64 {
	letters, upper := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// IsURL reports whether s looks like a URL or a web address.
func IsURL(s string) bool {
	return patterns.Get(patterns.URL).MatchString(s)
}
