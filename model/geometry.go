package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBBox is returned when a bounding box has inverted edges.
var ErrInvalidBBox = errors.New("invalid bounding box")

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box in page-layout units.
// Coordinates follow the top-left page convention: Y grows downward, so
// Y0 is the top edge and Y1 is the bottom edge.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from edge coordinates, rejecting boxes
// whose edges are inverted.
func NewBBox(x0, y0, x1, y1 float64) (BBox, error) {
	if x0 > x1 || y0 > y1 {
		return BBox{}, fmt.Errorf("%w: (%g,%g,%g,%g)", ErrInvalidBBox, x0, y0, x1, y1)
	}
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}, nil
}

// MustBBox is like NewBBox but panics on invalid input. It is intended for
// literals in tests and fixtures.
func MustBBox(x0, y0, x1, y1 float64) BBox {
	b, err := NewBBox(x0, y0, x1, y1)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X0: math.Min(p1.X, p2.X),
		Y0: math.Min(p1.Y, p2.Y),
		X1: math.Max(p1.X, p2.X),
		Y1: math.Max(p1.Y, p2.Y),
	}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) * 0.5,
		Y: (b.Y0 + b.Y1) * 0.5,
	}
}

// CenterX returns the horizontal center
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) * 0.5
}

// CenterY returns the vertical center
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) * 0.5
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 &&
		p.Y >= b.Y0 && p.Y <= b.Y1
}

// ContainsBBox reports whether other lies entirely inside b.
func (b BBox) ContainsBBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Intersection returns the intersection of two bounding boxes
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Expand expands the bounding box by a margin on all sides. A negative
// margin shrinks it; edges never cross, a box shrunk past its center
// collapses to a zero-size box at the center.
func (b BBox) Expand(margin float64) BBox {
	out := BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
	if out.X0 > out.X1 {
		cx := b.CenterX()
		out.X0, out.X1 = cx, cx
	}
	if out.Y0 > out.Y1 {
		cy := b.CenterY()
		out.Y0, out.Y1 = cy, cy
	}
	return out
}

// HorizontalOverlap reports whether the X extents of b and other overlap
// once both are widened by tol.
func (b BBox) HorizontalOverlap(other BBox, tol float64) bool {
	return !(b.X1 < other.X0-tol || other.X1 < b.X0-tol)
}

// VerticalOverlap returns the length of the shared Y extent (<= 0 when the
// boxes do not overlap vertically).
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Min(b.Y1, other.Y1) - math.Max(b.Y0, other.Y0)
}

// Rounded returns the box with every edge rounded to one decimal place.
func (b BBox) Rounded() BBox {
	return BBox{
		X0: round1(b.X0),
		Y0: round1(b.Y0),
		X1: round1(b.X1),
		Y1: round1(b.Y1),
	}
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
