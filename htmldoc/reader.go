// Package htmldoc reads reference catalogs from the tables of HTML
// documents, such as exported requirement lists.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/smartcatalog/internal/refrow"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// ErrNoCodeColumn is returned when no table has a code column.
var ErrNoCodeColumn = refrow.ErrNoCodeColumn

// maxColSpan bounds colspan values taken from the document.
const maxColSpan = 64

// Table is one HTML table as cell text. Category is the table caption, or
// else the nearest heading before the table, or else the document title.
type Table struct {
	Category string
	Rows     [][]string
}

// Reader provides access to the tables of an HTML document.
type Reader struct {
	title  string
	tables []Table
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{}
	if t := findElement(doc, "title"); t != nil {
		reader.title = textnorm.CollapseSpaces(getTextContent(t))
	}

	heading := ""
	reader.walk(doc, &heading)
	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Title returns the document title
func (r *Reader) Title() string {
	return r.title
}

// Tables returns the tables of the document, in document order.
func (r *Reader) Tables() []Table {
	return r.tables
}

// ReferenceRows converts every table with a code column into reference
// rows. brands are the known brand names looked up in free-text
// descriptions.
func (r *Reader) ReferenceRows(brands []string) ([]model.ReferenceRow, error) {
	parser := refrow.NewParser(brands)

	var out []model.ReferenceRow
	found := false
	for i, t := range r.tables {
		rows, err := parser.Rows(t.Rows, t.Category)
		if errors.Is(err, refrow.ErrNoCodeColumn) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i+1, err)
		}
		found = true
		out = append(out, rows...)
	}

	if !found {
		return nil, fmt.Errorf("document: %w", ErrNoCodeColumn)
	}
	return out, nil
}

// ReadReferenceRows opens filename and returns its reference rows.
func ReadReferenceRows(filename string, brands []string) ([]model.ReferenceRow, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReferenceRows(brands)
}

// walk collects tables in document order, tracking the last heading seen.
// Nested tables are collected on their own and not descended into twice.
func (r *Reader) walk(n *html.Node, heading *string) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			*heading = textnorm.CollapseSpaces(getTextContent(n))
			return
		case "table":
			r.tables = append(r.tables, r.parseTable(n, *heading))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, heading)
	}
}

// parseTable reads the rows of a table element.
func (r *Reader) parseTable(tableNode *html.Node, heading string) Table {
	table := Table{Category: heading}
	if table.Category == "" {
		table.Category = r.title
	}

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			if caption := textnorm.CollapseSpaces(getTextContent(c)); caption != "" {
				table.Category = caption
			}
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					table.appendRow(tr)
				}
			}
		case "tr":
			table.appendRow(c)
		}
	}
	return table
}

// appendRow adds the cells of a tr element, repeating a cell once per
// column it spans so that column indexes line up with the header.
func (t *Table) appendRow(tr *html.Node) {
	var row []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		text := textnorm.CollapseSpaces(getTextContent(c))
		for i := 0; i < colSpan(c); i++ {
			row = append(row, text)
		}
	}
	if len(row) > 0 {
		t.Rows = append(t.Rows, row)
	}
}

func colSpan(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key != "colspan" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || v < 1 {
			return 1
		}
		if v > maxColSpan {
			return maxColSpan
		}
		return v
	}
	return 1
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.TrimSpace(result.String())
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString(" ")
		}
		// nested tables are read separately
		if n.Data == "table" && isInsideCell(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
			result.WriteString(" ")
		}
	}
}

// isInsideCell reports whether n has a td or th ancestor.
func isInsideCell(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "td" || p.Data == "th") {
			return true
		}
	}
	return false
}
