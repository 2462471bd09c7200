// Package refrow turns tabular reference data (spreadsheet sheets, HTML
// tables) into reference rows. Both the normalized layout (code, brand,
// type, shape, dimensions, qty, category) and the raw purchasing layout
// (item code, description, description 2, qty) are understood; in the raw
// layout brand, shape and dimensions are derived from the description.
package refrow

import (
	"errors"
	"strings"

	"github.com/tsawler/smartcatalog/textnorm"
)

// ErrNoCodeColumn is returned when no header row names a code column.
var ErrNoCodeColumn = errors.New("no code column in header")

// headerScanRows is how many leading rows may precede the header row
// (sheet titles, notes).
const headerScanRows = 10

// Field is a column role.
type Field int

const (
	FieldCode Field = iota
	FieldBrand
	FieldType
	FieldShape
	FieldDimensions
	FieldQty
	FieldCategory
	FieldDescription
	FieldDescription2
)

var headerAliases = map[string]Field{
	"code":          FieldCode,
	"item code":     FieldCode,
	"article":       FieldCode,
	"article no":    FieldCode,
	"ref":           FieldCode,
	"brand":         FieldBrand,
	"manufacturer":  FieldBrand,
	"type":          FieldType,
	"name":          FieldType,
	"shape":         FieldShape,
	"dimensions":    FieldDimensions,
	"dimension":     FieldDimensions,
	"size":          FieldDimensions,
	"qty":           FieldQty,
	"quantity":      FieldQty,
	"category":      FieldCategory,
	"description":   FieldDescription,
	"description 2": FieldDescription2,
}

// Header maps column roles to column indexes.
type Header map[Field]int

// normalizeHeader folds a header cell so that "Item_Code ", "ITEM CODE" and
// "item code" compare equal.
func normalizeHeader(s string) string {
	s = strings.ReplaceAll(textnorm.Fold(s), "_", " ")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return textnorm.CollapseSpaces(s)
}

// ParseHeader resolves the roles of a header row. The first column claiming
// a role wins.
func ParseHeader(cells []string) (Header, error) {
	h := Header{}
	for i, c := range cells {
		f, ok := headerAliases[normalizeHeader(c)]
		if !ok {
			continue
		}
		if _, seen := h[f]; !seen {
			h[f] = i
		}
	}
	if _, ok := h[FieldCode]; !ok {
		return nil, ErrNoCodeColumn
	}
	return h, nil
}

// findHeader returns the index and roles of the first header row among the
// leading rows of table.
func findHeader(table [][]string) (int, Header, error) {
	for i := 0; i < len(table) && i < headerScanRows; i++ {
		if h, err := ParseHeader(table[i]); err == nil {
			return i, h, nil
		}
	}
	return -1, nil, ErrNoCodeColumn
}

// cell returns the collapsed text of column f in row, or "".
func (h Header) cell(row []string, f Field) string {
	i, ok := h[f]
	if !ok || i >= len(row) {
		return ""
	}
	return textnorm.CollapseSpaces(row[i])
}
