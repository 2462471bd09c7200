package layout

import (
	"math"
	"sort"

	"github.com/tsawler/smartcatalog/model"
)

// Grid is the row/column partition of a page inferred from anchor centers.
//
// XBounds and YBounds hold one more entry than there are columns and rows:
// the first and last entries are the page edges, the inner ones are the
// midpoints between adjacent cluster centers. Cells therefore cover the page
// exhaustively and never overlap.
type Grid struct {
	// ColCenters are the mean x-centers of the column clusters, ascending
	ColCenters []float64

	// RowCenters are the mean y-centers of the row clusters, ascending
	RowCenters []float64

	// XBounds are the column boundaries, ascending
	XBounds []float64

	// YBounds are the row boundaries, ascending
	YBounds []float64
}

// Rows returns the number of grid rows
func (g *Grid) Rows() int {
	return len(g.RowCenters)
}

// Cols returns the number of grid columns
func (g *Grid) Cols() int {
	return len(g.ColCenters)
}

// Assign returns the (row, col) whose centers are nearest to p. Points
// between two clusters go to the closer center, not to the cluster that
// originally absorbed them.
func (g *Grid) Assign(p model.Point) (row, col int) {
	return nearestIndex(p.Y, g.RowCenters), nearestIndex(p.X, g.ColCenters)
}

// Cell returns the cell at (row, col)
func (g *Grid) Cell(row, col int) model.GridCell {
	return model.GridCell{
		Row: row,
		Col: col,
		Bounds: model.BBox{
			X0: g.XBounds[col],
			Y0: g.YBounds[row],
			X1: g.XBounds[col+1],
			Y1: g.YBounds[row+1],
		},
	}
}

// Cells returns every cell, row by row
func (g *Grid) Cells() []model.GridCell {
	cells := make([]model.GridCell, 0, g.Rows()*g.Cols())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cells = append(cells, g.Cell(r, c))
		}
	}
	return cells
}

// CellFor returns the cell an anchor belongs to
func (g *Grid) CellFor(anchor model.CodeAnchor) model.GridCell {
	row, col := g.Assign(anchor.BBox.Center())
	return g.Cell(row, col)
}

// GridClusterer infers a grid from anchor positions
type GridClusterer struct {
	config Config
}

// NewGridClusterer creates a grid clusterer with default configuration
func NewGridClusterer() *GridClusterer {
	return &GridClusterer{config: DefaultConfig()}
}

// NewGridClustererWithConfig creates a grid clusterer with custom configuration
func NewGridClustererWithConfig(config Config) *GridClusterer {
	return &GridClusterer{config: config}
}

// Cluster builds the grid for the given anchors on a page with rectangle
// page. It returns nil when there are no anchors.
func (c *GridClusterer) Cluster(anchors []model.CodeAnchor, page model.BBox) *Grid {
	if len(anchors) == 0 {
		return nil
	}

	xs := make([]float64, len(anchors))
	ys := make([]float64, len(anchors))
	for i, a := range anchors {
		xs[i] = a.BBox.CenterX()
		ys[i] = a.BBox.CenterY()
	}

	cols := clusterPositions(xs, c.config.ColumnTolerance)
	rows := clusterPositions(ys, c.config.RowTolerance)

	return &Grid{
		ColCenters: cols,
		RowCenters: rows,
		XBounds:    boundaries(cols, page.X0, page.X1),
		YBounds:    boundaries(rows, page.Y0, page.Y1),
	}
}

// clusterPositions chains sorted values into clusters, starting a new one
// whenever the next value is more than tol away from the last value added,
// and returns the cluster means in ascending order.
func clusterPositions(vals []float64, tol float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	var centers []float64
	sum, n := sorted[0], 1
	last := sorted[0]
	for _, v := range sorted[1:] {
		if v-last > tol {
			centers = append(centers, sum/float64(n))
			sum, n = 0, 0
		}
		sum += v
		n++
		last = v
	}
	return append(centers, sum/float64(n))
}

// boundaries returns [lo, midpoints..., hi]. The outer edges are widened to
// the extreme centers if those fall outside the page.
func boundaries(centers []float64, lo, hi float64) []float64 {
	out := make([]float64, 0, len(centers)+1)
	out = append(out, math.Min(lo, centers[0]))
	for i := 1; i < len(centers); i++ {
		out = append(out, (centers[i-1]+centers[i])/2)
	}
	return append(out, math.Max(hi, centers[len(centers)-1]))
}

// nearestIndex returns the index of the center closest to v; the lower
// index wins ties.
func nearestIndex(v float64, centers []float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := math.Abs(v - c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
