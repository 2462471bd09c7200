package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/tsawler/smartcatalog/model"
)

// ErrPageOutOfRange is returned when a page number is not in [1, PageCount].
var ErrPageOutOfRange = errors.New("page out of range")

// defaultMediaBox is US Letter, used when a page and its parents carry no
// MediaBox.
var defaultMediaBox = [4]float64{0, 0, 612, 792}

// Reader represents a PDF file opened for span extraction
type Reader struct {
	file   io.Closer
	pdf    *lpdf.Reader
	config Config
}

// NewReader creates a reader over PDF data of the given size
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	pdf, err := lpdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return &Reader{pdf: pdf, config: DefaultConfig()}, nil
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	reader, err := NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.file = file

	return reader, nil
}

// WithConfig replaces the span building configuration
func (r *Reader) WithConfig(config Config) *Reader {
	r.config = config
	return r
}

// Close closes the underlying file, if the reader opened one
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// PageCount returns the number of pages in the document
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// Page returns page number (1-indexed) as positioned spans in top-left
// coordinates.
func (r *Reader) Page(number int) (*model.Page, error) {
	if number < 1 || number > r.PageCount() {
		return nil, fmt.Errorf("page %d of %d: %w", number, r.PageCount(), ErrPageOutOfRange)
	}

	p := r.pdf.Page(number)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: not found in page tree", number)
	}

	box := mediaBox(p)
	rect := model.BBox{X0: 0, Y0: 0, X1: box[2] - box[0], Y1: box[3] - box[1]}

	glyphs, err := pageGlyphs(p, box)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", number, err)
	}

	page := model.NewPage(number, rect)
	for _, s := range BuildSpans(glyphs, rect.Height(), r.config) {
		page.AddSpan(s)
	}
	return page, nil
}

// pageGlyphs decodes the page content stream. The PDF library reports
// malformed content by panicking, which is turned into an error here.
func pageGlyphs(p lpdf.Page, box [4]float64) (glyphs []Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to decode content: %v", rec)
		}
	}()

	content := p.Content()
	glyphs = make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{
			Text:     t.S,
			X:        t.X - box[0],
			Y:        t.Y - box[1],
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return glyphs, nil
}

// mediaBox returns the page MediaBox, inherited from the page tree when the
// page itself has none.
func mediaBox(p lpdf.Page) [4]float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.Kind() != lpdf.Array || mb.Len() != 4 {
			continue
		}
		var box [4]float64
		for i := range box {
			box[i] = mb.Index(i).Float64()
		}
		if box[2] < box[0] {
			box[0], box[2] = box[2], box[0]
		}
		if box[3] < box[1] {
			box[1], box[3] = box[3], box[1]
		}
		return box
	}
	return defaultMediaBox
}
