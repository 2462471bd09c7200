package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/smartcatalog/dimension"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// ErrInvalidOperator is returned when a constraint carries an unknown
// relational operator.
var ErrInvalidOperator = dimension.ErrInvalidOperator

// Constraint is one dimension requirement of a query: either a single value
// compared with Op, or an explicit [Min, Max] range.
type Constraint struct {
	Op    dimension.Op `yaml:"op,omitempty" json:"op,omitempty"`
	Value float64      `yaml:"value,omitempty" json:"value,omitempty"`
	Min   *float64     `yaml:"min,omitempty" json:"min,omitempty"`
	Max   *float64     `yaml:"max,omitempty" json:"max,omitempty"`
}

// Equal returns a constraint requiring v within tolerance
func Equal(v float64) *Constraint {
	return &Constraint{Op: dimension.OpEq, Value: v}
}

// Compare returns a constraint "query op reference"
func Compare(op dimension.Op, v float64) *Constraint {
	return &Constraint{Op: op, Value: v}
}

// Between returns a range constraint
func Between(lo, hi float64) *Constraint {
	r := dimension.NewRange(lo, hi)
	return &Constraint{Min: &r.Lo, Max: &r.Hi}
}

// IsRange reports whether the constraint is a [Min, Max] range
func (c *Constraint) IsRange() bool {
	return c.Min != nil && c.Max != nil
}

// Range returns the constraint range, ordered
func (c *Constraint) Range() dimension.Range {
	return dimension.NewRange(*c.Min, *c.Max)
}

// normalize resolves the operator and rejects half-open ranges.
func (c *Constraint) normalize() error {
	if (c.Min == nil) != (c.Max == nil) {
		return fmt.Errorf("range needs both min and max")
	}
	op, err := dimension.ParseOp(string(c.Op))
	if err != nil {
		return err
	}
	c.Op = op
	return nil
}

// String renders the constraint compactly, e.g. ">=60" or "10-20"
func (c *Constraint) String() string {
	if c.IsRange() {
		r := c.Range()
		return formatNumber(r.Lo) + "-" + formatNumber(r.Hi)
	}
	op := c.Op
	if op == "" {
		op = dimension.OpEq
	}
	return string(op) + formatNumber(c.Value)
}

// Query is a structured item to look up in a reference catalog. Every field
// is optional; constraints are in millimetres (length, width, height,
// diameter) or millilitres (capacity).
type Query struct {
	ID    string `yaml:"id,omitempty" json:"id,omitempty"`
	Brand string `yaml:"brand,omitempty" json:"brand,omitempty"`
	Shape string `yaml:"shape,omitempty" json:"shape,omitempty"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty"`
	Code  string `yaml:"code,omitempty" json:"code,omitempty"`

	Length   *Constraint `yaml:"length,omitempty" json:"length,omitempty"`
	Width    *Constraint `yaml:"width,omitempty" json:"width,omitempty"`
	Height   *Constraint `yaml:"height,omitempty" json:"height,omitempty"`
	Diameter *Constraint `yaml:"diameter,omitempty" json:"diameter,omitempty"`
	Capacity *Constraint `yaml:"capacity,omitempty" json:"capacity,omitempty"`

	// ExpectedCode is the known correct catalog code, when available. It
	// is used only to measure accuracy in reports.
	ExpectedCode string `yaml:"expected_code,omitempty" json:"expected_code,omitempty"`
}

type namedConstraint struct {
	name string
	c    *Constraint
}

// constraints returns the dimension constraints present on the query
func (q *Query) constraints() []namedConstraint {
	var out []namedConstraint
	for _, nc := range []namedConstraint{
		{"length", q.Length},
		{"width", q.Width},
		{"height", q.Height},
		{"diameter", q.Diameter},
		{"capacity", q.Capacity},
	} {
		if nc.c != nil {
			out = append(out, nc)
		}
	}
	return out
}

// Normalize validates every constraint and resolves empty operators to "=".
func (q *Query) Normalize() error {
	for _, nc := range q.constraints() {
		if err := nc.c.normalize(); err != nil {
			return fmt.Errorf("query %s: %s: %w", q.label(), nc.name, err)
		}
	}
	return nil
}

// HasDimensions reports whether any dimension constraint is present
func (q *Query) HasDimensions() bool {
	return len(q.constraints()) > 0
}

// HasBrand reports whether the query names a brand that survives
// normalization
func (q *Query) HasBrand() bool {
	return textnorm.BrandKey(q.Brand) != ""
}

func (q *Query) label() string {
	if q.ID != "" {
		return q.ID
	}
	return strconv.Quote(q.Brief())
}

// Brief renders a one-line summary such as
// "Forceps (curved) [L=140mm, Ø=3mm, Cap=10-20ml]".
func (q *Query) Brief() string {
	var parts []string
	if q.Type != "" {
		parts = append(parts, q.Type)
	}
	if q.Shape != "" {
		parts = append(parts, "("+q.Shape+")")
	}

	var nums []string
	add := func(label string, c *Constraint, unit string) {
		if c == nil {
			return
		}
		s := c.String()
		if c.IsRange() {
			s = "=" + s
		}
		nums = append(nums, label+s+unit)
	}
	add("L", q.Length, "mm")
	add("W", q.Width, "mm")
	add("Ø", q.Diameter, "mm")
	add("Cap", q.Capacity, "ml")
	add("H", q.Height, "mm")

	if len(nums) > 0 {
		parts = append(parts, "["+strings.Join(nums, ", ")+"]")
	}
	return strings.Join(parts, " ")
}

// QueryFromEntry turns an extracted catalog entry into a query for
// cross-checking a catalog against a reference list. The author line and
// short description become type tokens, and the first length in the
// dimension text becomes an "=" length constraint. No brand is set: the
// author line names the instrument pattern, not the manufacturer.
func QueryFromEntry(e model.CatalogEntry) Query {
	q := Query{
		ID:   e.Code,
		Type: textnorm.CollapseSpaces(e.Author + " " + e.ShortDescription),
		Code: e.Code,
	}
	set := dimension.Parse(e.DimensionText)
	if len(set.Length.Singles) > 0 {
		q.Length = Equal(set.Length.Singles[0])
	}
	return q
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
