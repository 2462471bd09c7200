// Package model provides the data structures shared by the extraction and
// matching engines.
//
// # Pages and Spans
//
// A [Page] carries the page rectangle and the [Span] values produced by a
// span collector. Spans are immutable positioned text runs with a font size
// and the structural [LineKey] reported by the collector.
//
// # Extraction Output
//
//   - [CodeAnchor] - a located catalog code and its bounding box
//   - [GridCell] - one (row, column) slot of the inferred layout grid
//   - [CatalogEntry] - the structured record assembled for one anchor
//
// # Reference Data
//
// [ReferenceRow] is a plain row of a reference catalog (spreadsheet,
// database table, HTML table) used by the matcher.
//
// # Geometry
//
//   - [BBox] - bounding box in top-left page coordinates (Y grows downward)
//   - [Point] - 2D point with distance calculation
//
// Constructors such as [NewBBox] and [NewSpan] validate their invariants
// (X0 <= X1, Y0 <= Y1) at creation time.
package model
