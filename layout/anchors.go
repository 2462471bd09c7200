package layout

import (
	"math"
	"sort"

	"github.com/tsawler/smartcatalog/internal/patterns"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// AnchorDetector locates catalog codes on a page and maps each match back to
// the bounding box of the spans it was read from.
type AnchorDetector struct {
	config Config
}

// NewAnchorDetector creates an anchor detector with default configuration
func NewAnchorDetector() *AnchorDetector {
	return &AnchorDetector{config: DefaultConfig()}
}

// NewAnchorDetectorWithConfig creates an anchor detector with custom configuration
func NewAnchorDetectorWithConfig(config Config) *AnchorDetector {
	return &AnchorDetector{config: config}
}

// lineText is the rebuilt text of one structural line. owner[i] is the index
// of the span byte i came from, or -1 for an inserted space.
type lineText struct {
	text  []byte
	owner []int
	spans []model.Span
}

// Detect returns every code occurrence on the page, in reading order.
// Anchors with the same code and the same bounding box (to 0.1 units) are
// reported once.
func (d *AnchorDetector) Detect(spans []model.Span) []model.CodeAnchor {
	if len(spans) == 0 {
		return nil
	}

	codeRe := patterns.Get(patterns.Code)

	type dedupKey struct {
		code string
		box  model.BBox
	}
	seen := make(map[dedupKey]bool)
	var anchors []model.CodeAnchor

	for _, line := range d.groupIntoLines(spans) {
		lt := d.buildLineText(line)
		text := string(lt.text)

		for _, m := range codeRe.FindAllStringIndex(text, -1) {
			box, ok := lt.boxFor(m[0], m[1])
			if !ok {
				continue
			}
			code := text[m[0]:m[1]]
			key := dedupKey{code: code, box: box.Rounded()}
			if seen[key] {
				continue
			}
			seen[key] = true
			anchors = append(anchors, model.CodeAnchor{Code: code, BBox: box})
		}
	}

	return anchors
}

// groupIntoLines sorts spans top to bottom then left to right and groups
// them by structural line key. Lines keep the order in which their first
// span appears; spans inside a line are ordered by x.
func (d *AnchorDetector) groupIntoLines(spans []model.Span) [][]model.Span {
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := roundTenth(sorted[i].BBox.Y0), roundTenth(sorted[j].BBox.Y0)
		if yi != yj {
			return yi < yj
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	index := make(map[model.LineKey]int)
	var lines [][]model.Span
	for _, s := range sorted {
		i, ok := index[s.LineKey]
		if !ok {
			i = len(lines)
			index[s.LineKey] = i
			lines = append(lines, nil)
		}
		lines[i] = append(lines[i], s)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.X0 < line[j].BBox.X0
		})
	}
	return lines
}

// buildLineText concatenates the spans of one line, inserting a space at
// visible gaps, then collapses whitespace around hyphens so that
// "12 - 345 - 67" reads as "12-345-67".
func (d *AnchorDetector) buildLineText(line []model.Span) lineText {
	var raw []byte
	var owner []int

	for i, s := range line {
		if i > 0 && s.BBox.X0-line[i-1].BBox.X1 > d.config.SplitGap {
			raw = append(raw, ' ')
			owner = append(owner, -1)
		}
		t := textnorm.SpanText(s.Text)
		for k := 0; k < len(t); k++ {
			raw = append(raw, t[k])
			owner = append(owner, i)
		}
	}

	lt := lineText{spans: line}
	for i := 0; i < len(raw); {
		if !isSpace(raw[i]) {
			lt.text = append(lt.text, raw[i])
			lt.owner = append(lt.owner, owner[i])
			i++
			continue
		}
		j := i
		for j < len(raw) && isSpace(raw[j]) {
			j++
		}
		nearHyphen := (i > 0 && raw[i-1] == '-') || (j < len(raw) && raw[j] == '-')
		if !nearHyphen {
			lt.text = append(lt.text, raw[i:j]...)
			lt.owner = append(lt.owner, owner[i:j]...)
		}
		i = j
	}
	return lt
}

// boxFor returns the union of the boxes of the spans contributing to the
// byte range [start, end).
func (lt lineText) boxFor(start, end int) (model.BBox, bool) {
	var box model.BBox
	found := false
	last := -1
	for i := start; i < end; i++ {
		o := lt.owner[i]
		if o < 0 || o == last {
			continue
		}
		last = o
		if !found {
			box, found = lt.spans[o].BBox, true
			continue
		}
		box = box.Union(lt.spans[o].BBox)
	}
	return box, found
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
