package layout

import (
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// Category returns the page category from the stacked multi-language title
// block in the page header band (y0 < CategoryMaxY). Spans with letters and
// no digits are merged into visual lines read top to bottom; duplicate lines
// are dropped and the TargetLanguageSlot line is returned, falling back to
// the first.
func Category(spans []model.Span, config Config) string {
	var header []model.Span
	for _, s := range spans {
		if s.BBox.Y0 >= config.CategoryMaxY {
			continue
		}
		if !textnorm.HasLetter(s.Text) || textnorm.HasDigit(s.Text) {
			continue
		}
		header = append(header, s)
	}
	seen := make(map[string]bool)
	var lines []string
	for _, l := range mergeLines(header, config.LineMergeTolerance) {
		if seen[l.text] {
			continue
		}
		seen[l.text] = true
		lines = append(lines, l.text)
	}
	return pickSlot(lines, config.TargetLanguageSlot)
}
