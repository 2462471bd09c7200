package layout

import (
	"github.com/tsawler/smartcatalog/model"
)

// PageResult holds everything recovered from one catalog page
type PageResult struct {
	// Entries are the catalog entries, one per anchor, in anchor order
	Entries []model.CatalogEntry

	// Anchors are the detected code anchors
	Anchors []model.CodeAnchor

	// Grid is the inferred row/column grid (nil when the page has no anchors)
	Grid *Grid

	// Category is the page-level category line
	Category string
}

// Assembler combines anchor detection, grid inference and cell field
// extraction into catalog entries.
type Assembler struct {
	config  Config
	anchors *AnchorDetector
	grid    *GridClusterer
	cells   *CellExtractor
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config Config) *Assembler {
	return &Assembler{
		config:  config,
		anchors: NewAnchorDetectorWithConfig(config),
		grid:    NewGridClustererWithConfig(config),
		cells:   NewCellExtractorWithConfig(config),
	}
}

// Config returns the assembler configuration
func (a *Assembler) Config() Config {
	return a.config
}

// Assemble returns the catalog entries of a page. A page without anchors
// yields no entries.
func (a *Assembler) Assemble(page *model.Page) []model.CatalogEntry {
	return a.Analyze(page).Entries
}

// Analyze runs the full extraction pipeline on a page and returns the
// intermediate results alongside the entries.
func (a *Assembler) Analyze(page *model.Page) *PageResult {
	result := &PageResult{}
	if page == nil || len(page.Spans) == 0 {
		return result
	}

	result.Anchors = a.anchors.Detect(page.Spans)
	if len(result.Anchors) == 0 {
		return result
	}

	result.Category = Category(page.Spans, a.config)
	result.Grid = a.grid.Cluster(result.Anchors, page.Rect)

	index := NewSpanIndex(page.Spans)
	result.Entries = make([]model.CatalogEntry, 0, len(result.Anchors))

	for _, anchor := range result.Anchors {
		cell := result.Grid.CellFor(anchor)
		spans := index.Within(cell.Bounds.Expand(-a.config.CellPadding))
		fields := a.cells.Extract(spans, anchor.BBox)

		result.Entries = append(result.Entries, model.CatalogEntry{
			Code:             anchor.Code,
			Category:         result.Category,
			Author:           fields.Author,
			DimensionText:    fields.DimensionText,
			ShortDescription: fields.ShortDescription,
			BBox:             anchor.BBox,
			Page:             page.Number,
		})
	}

	return result
}
