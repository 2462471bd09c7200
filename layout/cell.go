package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/smartcatalog/internal/patterns"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// CellFields are the text fields recovered from one grid cell
type CellFields struct {
	Author           string
	DimensionText    string
	ShortDescription string
}

// CellExtractor reads the author line, dimension text and short
// description of one catalog cell. It works on the spans that lie inside
// the (padded) cell and on the bounding box of the cell's anchor.
//
// Every field is total: a cell without qualifying spans yields "".
type CellExtractor struct {
	config Config
}

// NewCellExtractor creates a cell extractor with default configuration
func NewCellExtractor() *CellExtractor {
	return &CellExtractor{config: DefaultConfig()}
}

// NewCellExtractorWithConfig creates a cell extractor with custom configuration
func NewCellExtractorWithConfig(config Config) *CellExtractor {
	return &CellExtractor{config: config}
}

// Extract returns all fields of a cell
func (e *CellExtractor) Extract(spans []model.Span, anchor model.BBox) CellFields {
	return CellFields{
		Author:           e.Author(spans, anchor),
		DimensionText:    e.DimensionText(spans, anchor),
		ShortDescription: e.Description(spans),
	}
}

// authorCandidate is a span inside the author search window with its score
type authorCandidate struct {
	span  model.Span
	score float64
}

// Author returns the brand or author line printed above the anchor.
//
// Candidates end no more than AuthorWindowAbove above the anchor top and
// reach no more than AuthorWindowBelow below it, overlap the anchor
// horizontally, and are not noise. The best-scoring candidate picks the
// line; every candidate on that line is joined left to right.
func (e *CellExtractor) Author(spans []model.Span, anchor model.BBox) string {
	candidates := e.authorCandidates(spans, anchor)
	if len(candidates) == 0 {
		return e.authorFallback(spans, anchor)
	}

	best := bestCandidate(candidates)

	var line []model.Span
	for _, c := range candidates {
		if absFloat(c.span.BBox.Y0-best.span.BBox.Y0) <= e.config.AuthorLineTolerance {
			line = append(line, c.span)
		}
	}
	return joinByX(line)
}

func (e *CellExtractor) authorCandidates(spans []model.Span, anchor model.BBox) []authorCandidate {
	var out []authorCandidate
	for _, s := range spans {
		text := strings.TrimSpace(s.Text)
		if isAuthorNoise(text) {
			continue
		}
		if s.BBox.Y1 > anchor.Y0+e.config.AuthorWindowBelow {
			continue
		}
		if s.BBox.Y1 < anchor.Y0-e.config.AuthorWindowAbove {
			continue
		}
		if !anchor.HorizontalOverlap(s.BBox, e.config.AuthorXTolerance) {
			continue
		}
		out = append(out, authorCandidate{span: s, score: e.authorScore(s, anchor)})
	}
	return out
}

// authorScore favours large fonts, mostly uppercase text and lines close to
// the anchor.
func (e *CellExtractor) authorScore(s model.Span, anchor model.BBox) float64 {
	score := s.FontSize * e.config.AuthorFontWeight
	if textnorm.UpperRatio(s.Text) > e.config.UppercaseRatio {
		score += e.config.UppercaseBonus
	}
	gap := anchor.Y0 - s.BBox.Y1
	if gap > 0 {
		score -= e.config.GapPenalty * gap
	}
	return score
}

// bestCandidate returns the highest-scoring candidate; the earliest wins ties.
func bestCandidate(cs []authorCandidate) authorCandidate {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best
}

// authorFallback picks the largest-font span lying fully above the anchor's
// vertical center. Ties go to the span higher on the page.
func (e *CellExtractor) authorFallback(spans []model.Span, anchor model.BBox) string {
	cy := anchor.CenterY()
	var best *model.Span
	for i := range spans {
		s := &spans[i]
		if s.BBox.Y1 > cy || isAuthorNoise(strings.TrimSpace(s.Text)) {
			continue
		}
		if best == nil || s.FontSize > best.FontSize ||
			(s.FontSize == best.FontSize && s.BBox.Y0 < best.BBox.Y0) {
			best = s
		}
	}
	if best == nil {
		return ""
	}
	return textnorm.CollapseSpaces(best.Text)
}

// isAuthorNoise rejects text that cannot be an author line: catalog codes,
// URLs, measurements and short page numbers.
func isAuthorNoise(text string) bool {
	if text == "" {
		return true
	}
	if loc := patterns.Get(patterns.Code).FindStringIndex(text); loc != nil && loc[0] == 0 && loc[1] == len(text) {
		return true
	}
	if textnorm.IsURL(text) {
		return true
	}
	if len(text) <= 4 && isAllDigits(text) {
		return true
	}
	return looksLikeMeasurement(text)
}

// looksLikeMeasurement reports text carrying a unit or diameter marker
// next to a number, or digits without any letter.
func looksLikeMeasurement(text string) bool {
	if patterns.Get(patterns.MeasurementUnit).MatchString(text) {
		return true
	}
	return textnorm.HasDigit(text) && !textnorm.HasLetter(text)
}

// DimensionText returns the measurement text printed to the right of the
// anchor on the same line.
func (e *CellExtractor) DimensionText(spans []model.Span, anchor model.BBox) string {
	var parts []model.Span
	for _, s := range spans {
		if s.BBox.X0 < anchor.X1-1 {
			continue
		}
		if anchor.VerticalOverlap(s.BBox) <= 0 {
			continue
		}
		if textnorm.HasDigit(s.Text) || hasDimensionMarker(s.Text) {
			parts = append(parts, s)
		}
	}
	return joinByX(parts)
}

func hasDimensionMarker(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "cm") || strings.Contains(lower, "mm") ||
		strings.ContainsAny(text, "Øø⌀\"“”")
}

// Description returns the target-language line of the small-font label
// block in a cell.
//
// Small-font lines with letters and no digits are read top to bottom and
// grouped while each line starts within DescriptionLineGap of the previous
// one; a larger step starts a new group. A group that reaches
// DescriptionMaxLines ends the search.
func (e *CellExtractor) Description(spans []model.Span) string {
	var small []model.Span
	for _, s := range spans {
		if s.FontSize > e.config.SmallFontMax {
			continue
		}
		if !textnorm.HasLetter(s.Text) || textnorm.HasDigit(s.Text) || textnorm.IsURL(s.Text) {
			continue
		}
		small = append(small, s)
	}
	if len(small) == 0 {
		return ""
	}

	var lines []string
	var lastY float64
	for _, l := range mergeLines(small, e.config.LineMergeTolerance) {
		if len(lines) == 0 || absFloat(l.y0-lastY) <= e.config.DescriptionLineGap {
			lines = append(lines, l.text)
			lastY = l.y0
			if len(lines) == e.config.DescriptionMaxLines {
				break
			}
			continue
		}
		lines = []string{l.text}
		lastY = l.y0
	}

	return pickSlot(lines, e.config.TargetLanguageSlot)
}

type textLine struct {
	y0   float64
	text string
}

// mergeLines reads spans top-down as visual lines: spans whose top edges
// lie within tol of the first span of a line join it, left to right.
func mergeLines(spans []model.Span, tol float64) []textLine {
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sortTopDown(sorted)

	var lines []textLine
	var group []model.Span
	flush := func() {
		if len(group) == 0 {
			return
		}
		if text := joinByX(group); text != "" {
			lines = append(lines, textLine{y0: group[0].BBox.Y0, text: text})
		}
		group = nil
	}
	for _, s := range sorted {
		if len(group) > 0 && absFloat(s.BBox.Y0-group[0].BBox.Y0) > tol {
			flush()
		}
		group = append(group, s)
	}
	flush()
	return lines
}

// joinByX joins span texts left to right and collapses whitespace.
func joinByX(spans []model.Span) string {
	if len(spans) == 0 {
		return ""
	}
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = s.Text
	}
	return textnorm.CollapseSpaces(strings.Join(parts, " "))
}

// sortTopDown orders spans by top edge, then left edge.
func sortTopDown(spans []model.Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].BBox.Y0 != spans[j].BBox.Y0 {
			return spans[i].BBox.Y0 < spans[j].BBox.Y0
		}
		return spans[i].BBox.X0 < spans[j].BBox.X0
	})
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
