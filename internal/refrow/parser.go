package refrow

import (
	"strconv"
	"strings"

	"github.com/tsawler/smartcatalog/model"
)

// Parser converts tables to reference rows
type Parser struct {
	brands *BrandMatcher
}

// NewParser creates a parser that recognizes the given brand names inside
// descriptions.
func NewParser(brands []string) *Parser {
	return &Parser{brands: NewBrandMatcher(brands)}
}

type rowKey struct {
	code     string
	category string
}

// Rows converts one table. The header row is the first of the leading rows
// naming a code column; rows without a code are skipped, and so are
// repeated (code, category) pairs. category is used for rows that do not
// carry their own.
func (p *Parser) Rows(table [][]string, category string) ([]model.ReferenceRow, error) {
	start, h, err := findHeader(table)
	if err != nil {
		return nil, err
	}

	var rows []model.ReferenceRow
	seen := make(map[rowKey]bool)
	for _, cells := range table[start+1:] {
		row, ok := p.row(h, cells, category)
		if !ok {
			continue
		}
		k := rowKey{row.Code, row.Category}
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, row)
	}
	return rows, nil
}

// row builds one reference row. Explicit columns win; missing brand, type,
// shape and dimensions are derived from the description columns.
func (p *Parser) row(h Header, cells []string, category string) (model.ReferenceRow, bool) {
	code := h.cell(cells, FieldCode)
	if code == "" {
		return model.ReferenceRow{}, false
	}

	desc := joinDescription(h.cell(cells, FieldDescription), h.cell(cells, FieldDescription2))

	row := model.ReferenceRow{
		Code:       code,
		Brand:      h.cell(cells, FieldBrand),
		Type:       h.cell(cells, FieldType),
		Shape:      h.cell(cells, FieldShape),
		Dimensions: h.cell(cells, FieldDimensions),
		Qty:        parseQty(h.cell(cells, FieldQty)),
		Category:   h.cell(cells, FieldCategory),
	}
	if row.Category == "" {
		row.Category = strings.TrimSpace(category)
	}

	if desc != "" {
		if row.Brand == "" {
			row.Brand = p.brands.Match(desc)
		}
		if row.Type == "" {
			row.Type = removeBrand(desc, row.Brand)
		}
		if row.Shape == "" {
			row.Shape = extractShape(desc)
		}
		if row.Dimensions == "" {
			row.Dimensions = extractDimensions(desc)
		}
	}
	return row, true
}

// parseQty accepts integral quantities, including spreadsheet renderings
// such as "3.0".
func parseQty(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	n := int(f)
	return &n
}
