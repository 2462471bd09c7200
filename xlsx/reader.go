// Package xlsx reads reference catalogs from XLSX workbooks.
//
// Every sheet is a table; the sheet name is the default category of its
// rows. See the refrow rules for the accepted header layouts.
package xlsx

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/smartcatalog/internal/refrow"
	"github.com/tsawler/smartcatalog/model"
)

// ErrNoCodeColumn is returned when no sheet has a code column.
var ErrNoCodeColumn = refrow.ErrNoCodeColumn

// Reader provides access to the sheets of a workbook
type Reader struct {
	file *excelize.File
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Reader, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Reader{file: f}, nil
}

// OpenReader reads an XLSX workbook from r.
func OpenReader(r io.Reader) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return &Reader{file: f}, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetNames returns the names of all sheets, in workbook order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// SheetCount returns the number of sheets in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.SheetNames())
}

// Rows returns the cell text of a sheet, row by row.
func (r *Reader) Rows(sheet string) ([][]string, error) {
	rows, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// ReferenceRows converts every sheet with a code column into reference
// rows. Sheets without one are skipped; an error is returned only when no
// sheet has one. brands are the known brand names looked up in free-text
// descriptions.
func (r *Reader) ReferenceRows(brands []string) ([]model.ReferenceRow, error) {
	parser := refrow.NewParser(brands)

	var out []model.ReferenceRow
	found := false
	for _, sheet := range r.SheetNames() {
		table, err := r.Rows(sheet)
		if err != nil {
			return nil, err
		}
		rows, err := parser.Rows(table, sheet)
		if errors.Is(err, refrow.ErrNoCodeColumn) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		found = true
		out = append(out, rows...)
	}

	if !found {
		return nil, fmt.Errorf("workbook: %w", ErrNoCodeColumn)
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
