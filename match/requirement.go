package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/smartcatalog/dimension"
	"github.com/tsawler/smartcatalog/internal/refrow"
	"github.com/tsawler/smartcatalog/textnorm"
)

// Keywords are the words that introduce each field in a free-text
// requirement, such as "Forceps, curved, length >= 140 mm". Matching is
// case insensitive. Every list may hold words of any language.
type Keywords struct {
	Length   []string `yaml:"length"`
	Width    []string `yaml:"width"`
	Height   []string `yaml:"height"`
	Diameter []string `yaml:"diameter"`
	Capacity []string `yaml:"capacity"`

	// Shapes are recognized as whole words and copied to Query.Shape as
	// written here
	Shapes []string `yaml:"shapes"`

	// Brands are looked up as whole tokens
	Brands []string `yaml:"brands,omitempty"`

	// Equivalent phrases end the product type: "Forceps or equivalent"
	// has type "Forceps"
	Equivalent []string `yaml:"equivalent"`
}

// DefaultKeywords returns English keywords
func DefaultKeywords() Keywords {
	return Keywords{
		Length:     []string{"length", "long"},
		Width:      []string{"width", "wide"},
		Height:     []string{"height", "high"},
		Diameter:   []string{"diameter", "dia."},
		Capacity:   []string{"capacity", "volume"},
		Shapes:     []string{"curved", "straight", "angled", "bayonet"},
		Equivalent: []string{"or equivalent"},
	}
}

const (
	reqOp     = `(>=|<=|=>|=<|>|<|=)?`
	reqNumber = `(\d+(?:[.,]\d+)?)`
	reqUnit   = `(?:\s*(mm|ml|m|cm|l)\b)?`
	reqValue  = `\s*:?\s*` + reqOp + `\s*` + reqNumber + `(?:\s*-\s*` + reqNumber + `)?` + reqUnit

	// leading boundary that also holds for non-ASCII letters
	wordStart = `(?:^|[^\pL\pN])`
	wordEnd   = `(?:$|[^\pL\pN])`
)

var (
	reqFolder      = strings.NewReplacer("≥", ">=", "≤", "<=")
	diameterMarked = regexp.MustCompile(`(?:ø|⌀|` + wordStart + `phi)\s*` + reqNumber + `(?:\s*-\s*` + reqNumber + `)?` + reqUnit)
)

type fieldPattern struct {
	re    *regexp.Regexp
	class dimension.Class
	set   func(q *Query, c *Constraint)
}

// RequirementParser turns free-text requirements into queries. Patterns
// are built once from the keywords; a parser is safe for concurrent use.
type RequirementParser struct {
	fields     []fieldPattern
	shape      *regexp.Regexp
	shapes     map[string]string
	brands     *refrow.BrandMatcher
	equivalent []*regexp.Regexp
}

// NewRequirementParser prepares a parser for kw.
func NewRequirementParser(kw Keywords) *RequirementParser {
	p := &RequirementParser{
		shapes: make(map[string]string),
		brands: refrow.NewBrandMatcher(kw.Brands),
	}

	add := func(words []string, class dimension.Class, set func(q *Query, c *Constraint)) {
		alt := alternation(words)
		if alt == "" {
			return
		}
		p.fields = append(p.fields, fieldPattern{
			re:    regexp.MustCompile(wordStart + alt + reqValue),
			class: class,
			set:   set,
		})
	}
	add(kw.Length, dimension.Length, func(q *Query, c *Constraint) { q.Length = c })
	add(kw.Width, dimension.Length, func(q *Query, c *Constraint) { q.Width = c })
	add(kw.Height, dimension.Length, func(q *Query, c *Constraint) { q.Height = c })
	add(kw.Diameter, dimension.Length, func(q *Query, c *Constraint) { q.Diameter = c })
	add(kw.Capacity, dimension.Volume, func(q *Query, c *Constraint) { q.Capacity = c })

	if alt := alternation(kw.Shapes); alt != "" {
		p.shape = regexp.MustCompile(wordStart + "(" + alt + ")" + wordEnd)
		for _, s := range kw.Shapes {
			p.shapes[strings.ToLower(strings.TrimSpace(s))] = strings.TrimSpace(s)
		}
	}
	for _, e := range kw.Equivalent {
		if e = strings.TrimSpace(e); e != "" {
			p.equivalent = append(p.equivalent, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(e)))
		}
	}
	return p
}

// alternation quotes words and joins them longest first, so "length" is
// tried before "len".
func alternation(words []string) string {
	var quoted []string
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})
	if len(quoted) == 0 {
		return ""
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// ParseQuery parses one requirement with the given keywords.
func ParseQuery(text string, kw Keywords) Query {
	return NewRequirementParser(kw).Parse(text)
}

// Parse extracts a query from one requirement text. The first mention of
// each field wins. A value without a unit is read as millimetres, or
// millilitres for capacity; a value whose unit belongs to the other class
// is ignored. Without a diameter keyword, a value after a diameter marker
// (ø, ⌀, phi) is the diameter. The product type is the text before the
// first colon or comma, cut at any equivalent phrase.
func (p *RequirementParser) Parse(text string) Query {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(reqFolder.Replace(textnorm.FoldHyphens(raw)))

	q := Query{
		Brand: p.brands.Match(raw),
		Type:  p.productType(raw),
	}

	for _, f := range p.fields {
		m := f.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if c := constraint(m[1], m[2], m[3], m[4], f.class); c != nil {
			f.set(&q, c)
		}
	}
	if q.Diameter == nil {
		if m := diameterMarked.FindStringSubmatch(lower); m != nil {
			q.Diameter = constraint("", m[1], m[2], m[3], dimension.Length)
		}
	}

	if p.shape != nil {
		if m := p.shape.FindStringSubmatch(lower); m != nil {
			q.Shape = p.shapes[m[1]]
		}
	}
	return q
}

// constraint builds a range when hi is present, else a single compared
// with op. It returns nil when the unit does not fit class.
func constraint(op, lo, hi, unit string, class dimension.Class) *Constraint {
	if unit == "" {
		unit = "mm"
		if class == dimension.Volume {
			unit = "ml"
		}
	}
	convert := func(s string) (float64, bool) {
		v, ok := parseValue(s)
		if !ok {
			return 0, false
		}
		v, c, ok := dimension.Canonical(v, unit)
		return v, ok && c == class
	}

	a, ok := convert(lo)
	if !ok {
		return nil
	}
	if hi != "" {
		b, ok := convert(hi)
		if !ok {
			return nil
		}
		return Between(a, b)
	}

	parsed, err := dimension.ParseOp(op)
	if err != nil {
		return nil
	}
	return Compare(parsed, a)
}

func (p *RequirementParser) productType(text string) string {
	head := text
	if i := strings.Index(head, ":"); i >= 0 {
		head = head[:i]
	}
	if i := strings.Index(head, ","); i >= 0 {
		head = head[:i]
	}
	for _, re := range p.equivalent {
		if loc := re.FindStringIndex(head); loc != nil {
			head = head[:loc[0]]
		}
	}
	return textnorm.CollapseSpaces(head)
}

func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
