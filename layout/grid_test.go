package layout

import (
	"math"
	"testing"

	"github.com/tsawler/smartcatalog/model"
)

// anchorAt creates an anchor centered on (cx, cy)
func anchorAt(code string, cx, cy float64) model.CodeAnchor {
	return model.CodeAnchor{
		Code: code,
		BBox: model.BBox{X0: cx - 10, Y0: cy - 4, X1: cx + 10, Y1: cy + 4},
	}
}

var testPage = model.BBox{X0: 0, Y0: 0, X1: 600, Y1: 800}

func TestClusterPositions(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		tol  float64
		want []float64
	}{
		{"empty", nil, 60, nil},
		{"single", []float64{42}, 60, []float64{42}},
		{"two clusters", []float64{300, 100, 130}, 60, []float64{115, 300}},
		{"chained", []float64{0, 50, 100, 150}, 60, []float64{75}},
		{"exact tolerance joins", []float64{0, 25}, 25, []float64{12.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clusterPositions(tt.vals, tt.tol)
			if len(got) != len(tt.want) {
				t.Fatalf("clusterPositions() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("clusterPositions()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGridClusterer_Empty(t *testing.T) {
	if grid := NewGridClusterer().Cluster(nil, testPage); grid != nil {
		t.Errorf("Expected nil grid, got %+v", grid)
	}
}

func TestGridClusterer_Bounds(t *testing.T) {
	anchors := []model.CodeAnchor{
		anchorAt("a", 100, 100),
		anchorAt("b", 130, 110),
		anchorAt("c", 300, 400),
	}

	grid := NewGridClusterer().Cluster(anchors, testPage)

	if grid.Cols() != 2 || grid.Rows() != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d", grid.Rows(), grid.Cols())
	}

	wantX := []float64{0, 207.5, 600}
	wantY := []float64{0, 252.5, 800}
	for i := range wantX {
		if grid.XBounds[i] != wantX[i] {
			t.Errorf("XBounds[%d] = %v, want %v", i, grid.XBounds[i], wantX[i])
		}
		if grid.YBounds[i] != wantY[i] {
			t.Errorf("YBounds[%d] = %v, want %v", i, grid.YBounds[i], wantY[i])
		}
	}
}

func TestGridClusterer_Exhaustive(t *testing.T) {
	anchors := []model.CodeAnchor{
		anchorAt("a", 80, 150),
		anchorAt("b", 250, 152),
		anchorAt("c", 420, 149),
		anchorAt("d", 82, 420),
		anchorAt("e", 251, 418),
		anchorAt("f", 419, 700),
	}

	grid := NewGridClusterer().Cluster(anchors, testPage)

	checkPartition := func(name string, bounds []float64, lo, hi float64, clusters int) {
		if len(bounds) != clusters+1 {
			t.Errorf("%s: expected %d bounds, got %d", name, clusters+1, len(bounds))
		}
		if bounds[0] != lo || bounds[len(bounds)-1] != hi {
			t.Errorf("%s: bounds %v do not reach the page edges", name, bounds)
		}
		for i := 1; i < len(bounds); i++ {
			if bounds[i] <= bounds[i-1] {
				t.Errorf("%s: bounds not strictly ascending: %v", name, bounds)
			}
		}
	}
	checkPartition("x", grid.XBounds, 0, 600, grid.Cols())
	checkPartition("y", grid.YBounds, 0, 800, grid.Rows())

	cells := grid.Cells()
	if len(cells) != grid.Rows()*grid.Cols() {
		t.Errorf("Expected %d cells, got %d", grid.Rows()*grid.Cols(), len(cells))
	}
	area := 0.0
	for _, c := range cells {
		area += c.Bounds.Area()
	}
	if math.Abs(area-testPage.Area()) > 1e-6 {
		t.Errorf("Cells cover %v, page is %v", area, testPage.Area())
	}

	for _, a := range anchors {
		inside := 0
		for _, c := range cells {
			center := a.BBox.Center()
			if center.X >= c.Bounds.X0 && center.X < c.Bounds.X1 &&
				center.Y >= c.Bounds.Y0 && center.Y < c.Bounds.Y1 {
				inside++
			}
		}
		if inside != 1 {
			t.Errorf("Anchor %s center lies in %d cells, want 1", a.Code, inside)
		}

		cell := grid.CellFor(a)
		if !cell.Bounds.Contains(a.BBox.Center()) {
			t.Errorf("Anchor %s assigned to cell %+v that does not contain it", a.Code, cell)
		}
	}
}

func TestGrid_AssignNearestCenter(t *testing.T) {
	grid := &Grid{
		ColCenters: []float64{100, 300},
		RowCenters: []float64{100},
		XBounds:    []float64{0, 200, 600},
		YBounds:    []float64{0, 800},
	}

	tests := []struct {
		x       float64
		wantCol int
	}{
		{40, 0},
		{190, 0},
		{210, 1},
		{590, 1},
	}

	for _, tt := range tests {
		_, col := grid.Assign(model.Point{X: tt.x, Y: 100})
		if col != tt.wantCol {
			t.Errorf("Assign(x=%v) col = %d, want %d", tt.x, col, tt.wantCol)
		}
	}
}

func TestGridClusterer_ConfigurableTolerance(t *testing.T) {
	anchors := []model.CodeAnchor{
		anchorAt("a", 100, 100),
		anchorAt("b", 140, 100),
	}

	config := DefaultConfig()
	config.ColumnTolerance = 20
	grid := NewGridClustererWithConfig(config).Cluster(anchors, testPage)
	if grid.Cols() != 2 {
		t.Errorf("Expected 2 columns with tolerance 20, got %d", grid.Cols())
	}

	grid = NewGridClusterer().Cluster(anchors, testPage)
	if grid.Cols() != 1 {
		t.Errorf("Expected 1 column with default tolerance, got %d", grid.Cols())
	}
}
