package layout

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tsawler/smartcatalog/model"
)

// SpanIndex is a spatial index over the spans of one page, used to collect
// the spans of every grid cell without rescanning the whole page.
type SpanIndex struct {
	tree  rtree.RTreeG[int]
	spans []model.Span
}

// NewSpanIndex indexes spans. The slice is retained, not copied.
func NewSpanIndex(spans []model.Span) *SpanIndex {
	ix := &SpanIndex{spans: spans}
	for i, s := range spans {
		ix.tree.Insert([2]float64{s.BBox.X0, s.BBox.Y0}, [2]float64{s.BBox.X1, s.BBox.Y1}, i)
	}
	return ix
}

// Len returns the number of indexed spans
func (ix *SpanIndex) Len() int {
	return len(ix.spans)
}

// Within returns the spans lying entirely inside r, in their original order.
func (ix *SpanIndex) Within(r model.BBox) []model.Span {
	var hits []int
	ix.tree.Search([2]float64{r.X0, r.Y0}, [2]float64{r.X1, r.Y1}, func(_, _ [2]float64, i int) bool {
		if r.ContainsBBox(ix.spans[i].BBox) {
			hits = append(hits, i)
		}
		return true
	})
	sort.Ints(hits)

	out := make([]model.Span, len(hits))
	for k, i := range hits {
		out[k] = ix.spans[i]
	}
	return out
}
