// Package layout recovers structured catalog entries from the positioned
// text of grid-style catalog pages, using geometry only.
//
// # Pipeline
//
// The [Assembler] runs the detectors in order:
//
//	assembler := layout.NewAssembler()
//	entries := assembler.Assemble(page)
//
//   - [AnchorDetector] - rebuilds structural lines and finds catalog codes,
//     even when a code is split across several text runs
//   - [GridClusterer] - clusters anchor centers into columns and rows and
//     partitions the page into cells
//   - [SpanIndex] - spatial index used to collect the spans of one cell
//   - [CellExtractor] - reads the author line, dimension text and short
//     description around an anchor
//   - [Category] - reads the page category from the header band
//
// # Configuration
//
// Every tolerance lives in [Config]:
//
//	config := layout.DefaultConfig()
//	config.ColumnTolerance = 80
//	config.TargetLanguageSlot = 0
//	assembler := layout.NewAssemblerWithConfig(config)
//
// TargetLanguageSlot selects which line of a stacked multi-language label
// block is returned for descriptions and categories. The default of 1 fits
// catalogs printing German, English, Spanish and Italian in that order;
// documents with a different label order need a different slot.
//
// Extraction is total: pages without anchors yield no entries, and cells
// without qualifying spans yield empty fields.
package layout
