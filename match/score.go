package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/tsawler/smartcatalog/dimension"
	"github.com/tsawler/smartcatalog/textnorm"
)

// Scorer computes a bounded [0, 1] similarity between a query and a
// reference row. Only fields present on the query contribute, so an absent
// or degenerate field neither helps nor hurts.
type Scorer struct {
	weights   Weights
	tolerance float64
}

// NewScorer creates a scorer with the given weights and relative tolerance
// for numeric proximity
func NewScorer(weights Weights, tolerance float64) *Scorer {
	return &Scorer{weights: weights, tolerance: tolerance}
}

// features are the query tokens, computed once per query
type features struct {
	brand []string
	shape []string
	typ   []string
	code  string
}

func newFeatures(q *Query) features {
	f := features{
		brand: queryTokens(q.Brand),
		shape: queryTokens(q.Shape),
		typ:   queryTokens(q.Type),
	}
	if code, ok := textnorm.NormalizeCode(q.Code); ok {
		f.code = code
	} else {
		f.code = textnorm.Fold(strings.TrimSpace(q.Code))
	}
	return f
}

// queryTokens drops tokens without a letter or digit ("-", "+", "---"),
// so a field made only of punctuation contributes no term.
func queryTokens(s string) []string {
	var out []string
	for _, tok := range textnorm.Tokenize(s) {
		if textnorm.HasLetter(tok) || textnorm.HasDigit(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// accumulator sums weighted field scores and their weights
type accumulator struct {
	score  float64
	weight float64
}

func (a *accumulator) add(weight, score float64) {
	a.score += weight * score
	a.weight += weight
}

func (a *accumulator) result() float64 {
	if a.weight <= 0 {
		return 0
	}
	return a.score / a.weight
}

// Score returns the similarity of row i of ref to q
func (s *Scorer) Score(q *Query, ref *Reference, i int) float64 {
	return s.score(q, newFeatures(q), &ref.entries[i])
}

func (s *Scorer) score(q *Query, f features, e *entry) float64 {
	var acc accumulator
	w := s.weights

	if len(f.brand) > 0 {
		acc.add(w.Brand, averageTokenScore(f.brand, e.brandBlob, e.brandWords))
	}
	if len(f.shape) > 0 {
		acc.add(w.Shape, averageTokenScore(f.shape, e.descBlob, e.descWords))
	}
	if len(f.typ) > 0 {
		acc.add(w.Type, averageTokenScore(f.typ, e.descBlob, e.descWords))
	}
	if f.code != "" {
		acc.add(w.Code, tokenScore(f.code, e.descBlob, e.descWords))
	}

	if q.Length != nil {
		acc.add(w.Length, s.numeric(q.Length, e.dims.Length))
	}
	if q.Height != nil {
		acc.add(w.Height, s.numeric(q.Height, e.dims.Length))
	}
	if q.Diameter != nil {
		acc.add(w.Diameter, s.numeric(q.Diameter, e.dims.DiameterOrLength()))
	}
	if q.Capacity != nil {
		acc.add(w.Capacity, s.numeric(q.Capacity, e.dims.Volume))
	}

	return acc.result()
}

// numeric scores a constraint by proximity decay, or by range overlap for
// range constraints.
func (s *Scorer) numeric(c *Constraint, vals dimension.Values) float64 {
	if c.IsRange() {
		return dimension.RangeScore(c.Range(), vals, s.tolerance)
	}
	return dimension.ProximityScore(c.Value, vals, s.tolerance)
}

// averageTokenScore is the mean tokenScore over tokens
func averageTokenScore(tokens []string, blob string, words []string) float64 {
	if len(tokens) == 0 || len(words) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range tokens {
		total += tokenScore(t, blob, words)
	}
	return total / float64(len(tokens))
}

// tokenScore is 1 when token occurs literally in blob, else the best
// similarity ratio against any single word.
func tokenScore(token, blob string, words []string) float64 {
	if token == "" || len(words) == 0 {
		return 0
	}
	if strings.Contains(blob, token) {
		return 1
	}
	best := 0.0
	for _, w := range words {
		if r := similarity(token, w); r > best {
			best = r
		}
	}
	return best
}

// similarity is the edit-distance ratio 1 - d/max(len(a), len(b)), in runes.
func similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
