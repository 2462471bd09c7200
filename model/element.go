package model

import (
	"fmt"
	"math"
)

// LineKey identifies the structural line a span belongs to, as reported by
// the span collector (block number, line number within the block).
type LineKey struct {
	Block int
	Line  int
}

// Span is a positioned, styled run of text as it appears on a page.
type Span struct {
	Text     string
	BBox     BBox
	FontSize float64
	LineKey  LineKey
}

// NewSpan creates a span, validating its geometry and font size.
func NewSpan(text string, bbox BBox, fontSize float64, key LineKey) (Span, error) {
	if bbox.X0 > bbox.X1 || bbox.Y0 > bbox.Y1 {
		return Span{}, fmt.Errorf("span %q: %w", text, ErrInvalidBBox)
	}
	if fontSize < 0 || math.IsNaN(fontSize) {
		return Span{}, fmt.Errorf("span %q: invalid font size %g", text, fontSize)
	}
	return Span{Text: text, BBox: bbox, FontSize: fontSize, LineKey: key}, nil
}

// CodeAnchor is one located occurrence of a catalog code on a page.
type CodeAnchor struct {
	Code string
	BBox BBox
}

// GridCell is one (row, column) slot of the grid inferred from anchor
// positions.
type GridCell struct {
	Row    int
	Col    int
	Bounds BBox
}

// CatalogEntry is a structured catalog record recovered from one anchor.
type CatalogEntry struct {
	Code             string `json:"code"`
	Category         string `json:"category"`
	Author           string `json:"author"`
	DimensionText    string `json:"dimension_text"`
	ShortDescription string `json:"short_description"`
	BBox             BBox   `json:"bbox"`
	Page             int    `json:"page"`
}

// ReferenceRow is one row of an independent reference catalog.
type ReferenceRow struct {
	Code       string `json:"code" yaml:"code"`
	Brand      string `json:"brand" yaml:"brand"`
	Type       string `json:"type" yaml:"type"`
	Shape      string `json:"shape" yaml:"shape"`
	Dimensions string `json:"dimensions" yaml:"dimensions"`
	Qty        *int   `json:"qty,omitempty" yaml:"qty,omitempty"`
	Category   string `json:"category" yaml:"category"`
}
