package htmldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const requirementList = `<!DOCTYPE html>
<html>
<head><title>Tender 2024</title><style>td { color: red }</style></head>
<body>
<h2>Surgical  instruments</h2>
<table>
  <thead><tr><th>Item code</th><th>Description</th><th>Qty</th></tr></thead>
  <tbody>
    <tr><td>12-345-67</td><td>Aesculap forceps, curved<br>140 mm</td><td>4</td></tr>
    <tr><td></td><td>spacer row</td><td></td></tr>
  </tbody>
</table>
<table>
  <caption>Lab glass</caption>
  <tr><td>Code</td><td colspan="2">Type</td><td>Dimensions</td></tr>
  <tr><td>11-111-11</td><td>Beaker</td><td>ignored</td><td>250 ml</td></tr>
</table>
<table>
  <tr><td>Notes</td></tr>
  <tr><td>no codes here</td></tr>
</table>
</body>
</html>`

func TestOpenReader_Tables(t *testing.T) {
	r, err := OpenReader(strings.NewReader(requirementList))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	if r.Title() != "Tender 2024" {
		t.Errorf("Title() = %q, want %q", r.Title(), "Tender 2024")
	}

	tables := r.Tables()
	if len(tables) != 3 {
		t.Fatalf("Expected 3 tables, got %d", len(tables))
	}

	tests := []struct {
		category string
		rows     int
	}{
		{"Surgical instruments", 3},
		{"Lab glass", 2},
		{"Surgical instruments", 2},
	}
	for i, tt := range tests {
		if tables[i].Category != tt.category {
			t.Errorf("table %d category = %q, want %q", i, tables[i].Category, tt.category)
		}
		if len(tables[i].Rows) != tt.rows {
			t.Errorf("table %d rows = %d, want %d", i, len(tables[i].Rows), tt.rows)
		}
	}

	header := tables[1].Rows[0]
	if len(header) != 4 || header[1] != "Type" || header[2] != "Type" || header[3] != "Dimensions" {
		t.Errorf("colspan header = %q", header)
	}
	if got := tables[0].Rows[1][1]; got != "Aesculap forceps, curved 140 mm" {
		t.Errorf("cell text = %q", got)
	}
}

func TestReferenceRows(t *testing.T) {
	r, err := OpenReader(strings.NewReader(requirementList))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}

	rows, err := r.ReferenceRows([]string{"Aesculap"})
	if err != nil {
		t.Fatalf("ReferenceRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %+v", len(rows), rows)
	}

	f := rows[0]
	if f.Code != "12-345-67" || f.Brand != "Aesculap" || f.Shape != "curved" || f.Dimensions != "140 mm" {
		t.Errorf("rows[0] = %+v", f)
	}
	if f.Category != "Surgical instruments" {
		t.Errorf("rows[0] category = %q", f.Category)
	}
	if f.Qty == nil || *f.Qty != 4 {
		t.Errorf("rows[0] qty = %v, want 4", f.Qty)
	}

	b := rows[1]
	if b.Code != "11-111-11" || b.Type != "Beaker" || b.Dimensions != "250 ml" || b.Category != "Lab glass" {
		t.Errorf("rows[1] = %+v", b)
	}
}

func TestReferenceRows_NoCodeColumn(t *testing.T) {
	r, err := OpenReader(strings.NewReader("<p>nothing</p><table><tr><td>a</td></tr></table>"))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	if _, err := r.ReferenceRows(nil); !errors.Is(err, ErrNoCodeColumn) {
		t.Errorf("ReferenceRows() error = %v, want ErrNoCodeColumn", err)
	}
}

func TestReadReferenceRows_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.html")
	if err := os.WriteFile(path, []byte(requirementList), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := ReadReferenceRows(path, nil)
	if err != nil {
		t.Fatalf("ReadReferenceRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("Open() of a missing file should fail")
	}
}

func TestColSpan(t *testing.T) {
	r, err := OpenReader(strings.NewReader(`<table><tr><td colspan="x">a</td><td colspan="0">b</td><td colspan="1000">c</td></tr></table>`))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	row := r.Tables()[0].Rows[0]
	if len(row) != 2+maxColSpan {
		t.Errorf("row width = %d, want %d", len(row), 2+maxColSpan)
	}
}

func TestTable_TitleFallback(t *testing.T) {
	r, err := OpenReader(strings.NewReader(`<html><head><title>Price list</title></head><body><table><tr><td>x</td></tr></table></body></html>`))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	if got := r.Tables()[0].Category; got != "Price list" {
		t.Errorf("Category = %q, want %q", got, "Price list")
	}
}
