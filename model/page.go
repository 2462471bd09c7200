package model

// Page is the contract between a span collector and the extractor: the
// page rectangle plus every positioned text run on it.
type Page struct {
	Number int  // 1-indexed page number
	Rect   BBox // Page bounding rectangle
	Spans  []Span
}

// NewPage creates an empty page with the given rectangle
func NewPage(number int, rect BBox) *Page {
	return &Page{
		Number: number,
		Rect:   rect,
		Spans:  make([]Span, 0),
	}
}

// AddSpan appends a span to the page
func (p *Page) AddSpan(s Span) {
	p.Spans = append(p.Spans, s)
}

// Width returns the page width
func (p *Page) Width() float64 {
	return p.Rect.Width()
}

// Height returns the page height
func (p *Page) Height() float64 {
	return p.Rect.Height()
}

// SpansInRegion returns spans lying entirely inside bbox, in page order.
func (p *Page) SpansInRegion(bbox BBox) []Span {
	var spans []Span
	for _, s := range p.Spans {
		if bbox.ContainsBBox(s.BBox) {
			spans = append(spans, s)
		}
	}
	return spans
}
