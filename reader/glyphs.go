package reader

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// Glyph is one decoded piece of text in PDF user space: X grows to the
// right and Y is the baseline, growing upward from the page bottom.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// Config holds configuration for building spans from glyphs
type Config struct {
	// LineTolerance is the largest baseline difference, in points, for
	// two glyphs to share a line.
	LineTolerance float64

	// WordGapRatio is the horizontal gap, as a fraction of the font size,
	// read as a space inside a span.
	WordGapRatio float64

	// RunGapRatio is the horizontal gap, as a multiple of the font size,
	// that starts a new span.
	RunGapRatio float64

	// BlockGapRatio is the vertical gap between baselines, as a multiple of
	// the font size, that starts a new block.
	BlockGapRatio float64

	// Ascent is the share of the font size above the baseline.
	Ascent float64
}

// DefaultConfig returns sensible defaults for span building
func DefaultConfig() Config {
	return Config{
		LineTolerance: 2.0,
		WordGapRatio:  0.25,
		RunGapRatio:   1.0,
		BlockGapRatio: 1.8,
		Ascent:        0.8,
	}
}

type glyphLine struct {
	baseline float64
	fontSize float64
	glyphs   []Glyph
}

// BuildSpans groups glyphs into text runs in top-left coordinates. Glyphs
// sharing a baseline form a line; a gap wider than RunGapRatio or a font
// size change ends a span, while whitespace glyphs and word-sized gaps
// become single spaces. Span text is trimmed and hyphen variants are
// folded; spans left empty are dropped.
func BuildSpans(glyphs []Glyph, pageHeight float64, config Config) []model.Span {
	lines := groupLines(glyphs, config)

	var spans []model.Span
	block := 0
	lineInBlock := 0
	for i, line := range lines {
		if i > 0 {
			prev := lines[i-1]
			gap := prev.baseline - line.baseline
			if gap > config.BlockGapRatio*math.Max(prev.fontSize, line.fontSize) {
				block++
				lineInBlock = 0
			} else {
				lineInBlock++
			}
		}
		key := model.LineKey{Block: block, Line: lineInBlock}
		spans = append(spans, lineSpans(line, key, pageHeight, config)...)
	}
	return spans
}

// groupLines sorts glyphs top-down and clusters them by baseline
func groupLines(glyphs []Glyph, config Config) []glyphLine {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines []glyphLine
	current := glyphLine{baseline: sorted[0].Y}
	for _, g := range sorted {
		if math.Abs(g.Y-current.baseline) > config.LineTolerance {
			lines = append(lines, current)
			current = glyphLine{baseline: g.Y}
		}
		current.glyphs = append(current.glyphs, g)
		current.fontSize = math.Max(current.fontSize, g.FontSize)
	}
	lines = append(lines, current)

	for i := range lines {
		gs := lines[i].glyphs
		sort.SliceStable(gs, func(a, b int) bool {
			return gs[a].X < gs[b].X
		})
	}
	return lines
}

// lineSpans splits one line into runs
func lineSpans(line glyphLine, key model.LineKey, pageHeight float64, config Config) []model.Span {
	var spans []model.Span
	var text strings.Builder
	var bbox model.BBox
	var fontSize float64
	open := false
	space := false

	flush := func() {
		if !open {
			return
		}
		open = false
		t := textnorm.SpanText(text.String())
		text.Reset()
		if t == "" {
			return
		}
		if s, err := model.NewSpan(t, bbox, fontSize, key); err == nil {
			spans = append(spans, s)
		}
	}

	for _, g := range line.glyphs {
		if strings.TrimFunc(g.Text, unicode.IsSpace) == "" {
			space = open
			continue
		}
		gb := glyphBox(g, pageHeight, config)
		if open {
			gap := gb.X0 - bbox.X1
			if gap > config.RunGapRatio*fontSize || math.Abs(g.FontSize-fontSize) > 0.5 {
				flush()
			} else if space || gap > config.WordGapRatio*fontSize {
				text.WriteByte(' ')
			}
		}
		space = false
		if !open {
			open = true
			bbox = gb
			fontSize = g.FontSize
		} else {
			bbox = bbox.Union(gb)
		}
		text.WriteString(g.Text)
	}
	flush()

	return spans
}

// glyphBox converts a glyph to a top-left box one font size tall
func glyphBox(g Glyph, pageHeight float64, config Config) model.BBox {
	w := math.Max(g.W, 0)
	top := pageHeight - (g.Y + config.Ascent*g.FontSize)
	return model.BBox{
		X0: g.X,
		Y0: top,
		X1: g.X + w,
		Y1: top + math.Max(g.FontSize, 0),
	}
}
