package match

import (
	"github.com/tsawler/smartcatalog/dimension"
	"github.com/tsawler/smartcatalog/textnorm"
)

// Filter eliminates reference rows that cannot satisfy a query's brand or
// dimension constraints. It never scores: a row either survives or not.
type Filter struct {
	tolerance float64
}

// NewFilter creates a filter with the given relative dimension tolerance
func NewFilter(tolerance float64) *Filter {
	return &Filter{tolerance: tolerance}
}

// Active reports whether the query constrains anything the filter checks
func (f *Filter) Active(q *Query) bool {
	return q.HasBrand() || q.HasDimensions()
}

// Apply returns the indexes of the rows surviving the filter, in reference
// order. An inactive filter keeps every row.
func (f *Filter) Apply(q *Query, ref *Reference) []int {
	keep := make([]int, 0, ref.Len())
	active := f.Active(q)
	wantBrand := textnorm.BrandKey(q.Brand)
	for i := range ref.entries {
		if !active || f.accept(q, wantBrand, &ref.entries[i]) {
			keep = append(keep, i)
		}
	}
	return keep
}

// Accept reports whether row i of ref survives the filter for q
func (f *Filter) Accept(q *Query, ref *Reference, i int) bool {
	return f.accept(q, textnorm.BrandKey(q.Brand), &ref.entries[i])
}

func (f *Filter) accept(q *Query, wantBrand string, e *entry) bool {
	if wantBrand != "" && e.brandKey != wantBrand {
		return false
	}

	dims := e.dims
	checks := []struct {
		c    *Constraint
		vals dimension.Values
	}{
		{q.Length, dims.Length},
		{q.Width, dims.Length},
		{q.Height, dims.Length},
		{q.Diameter, dims.DiameterOrLength()},
		{q.Capacity, dims.Volume},
	}
	for _, chk := range checks {
		if chk.c != nil && !f.satisfies(chk.c, chk.vals) {
			return false
		}
	}
	return true
}

// satisfies evaluates one constraint; missing data never satisfies.
func (f *Filter) satisfies(c *Constraint, vals dimension.Values) bool {
	if c.IsRange() {
		return dimension.SatisfiesRange(c.Range(), vals, f.tolerance)
	}
	op := c.Op
	if op == "" {
		op = dimension.OpEq
	}
	return dimension.Satisfies(c.Value, op, vals, f.tolerance)
}
