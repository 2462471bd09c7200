package refrow

import (
	"errors"
	"strings"
	"testing"
)

func TestParser_RawLayout(t *testing.T) {
	table := [][]string{
		{"Instrument list"},
		{"ITEM CODE", "DESCRIPTION", "DESCRIPTION 2", "QTY"},
		{"12-345-67", "Förster-Ballenger forceps curved", "18 cm, Ø 2.3 mm", "3"},
		{"", "no code", "", ""},
		{"98-765-43", "Allen retractor hoặc tương đương Aesculap", "50-72 mm", "2.0"},
		{"12-345-67", "duplicate", "", ""},
		{"11-111-11", "Unknown beaker", "4x5", "many"},
	}

	p := NewParser([]string{"Allen", "Förster Ballenger", "Aesculap"})
	rows, err := p.Rows(table, "Sheet1")
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %+v", len(rows), rows)
	}

	r := rows[0]
	if r.Code != "12-345-67" || r.Brand != "Förster Ballenger" || r.Shape != "curved" {
		t.Errorf("row 0 = %+v", r)
	}
	if r.Type != "forceps curved 18 cm ø 2 3 mm" {
		t.Errorf("row 0 type = %q", r.Type)
	}
	if r.Dimensions != "18 cm, Ø 2.3 mm" {
		t.Errorf("row 0 dimensions = %q", r.Dimensions)
	}
	if r.Qty == nil || *r.Qty != 3 {
		t.Errorf("row 0 qty = %v, want 3", r.Qty)
	}
	if r.Category != "Sheet1" {
		t.Errorf("row 0 category = %q, want Sheet1", r.Category)
	}

	r = rows[1]
	if r.Brand != "Allen" {
		t.Errorf("row 1 brand = %q, want Allen (brands after the equivalent marker are ignored)", r.Brand)
	}
	if !strings.HasPrefix(r.Type, "retractor") {
		t.Errorf("row 1 type = %q, want brand removed", r.Type)
	}
	if r.Dimensions != "50-72 mm" {
		t.Errorf("row 1 dimensions = %q", r.Dimensions)
	}
	if r.Qty == nil || *r.Qty != 2 {
		t.Errorf("row 1 qty = %v, want 2", r.Qty)
	}

	r = rows[2]
	if r.Brand != "" || r.Type != "Unknown beaker, 4x5" || r.Dimensions != "4x5" || r.Qty != nil {
		t.Errorf("row 2 = %+v", r)
	}
}

func TestParser_NormalizedLayout(t *testing.T) {
	table := [][]string{
		{"Code", "Brand", "Type", "Shape", "Dimensions", "Qty", "Category"},
		{"12-345-67", "Aesculap", "Forceps", "curved", "140 mm", "", "Clamps"},
		{"98-765-43", "Martin", "Beaker", "", "250 ml", "1", ""},
	}

	rows, err := NewParser(nil).Rows(table, "Fallback")
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != "Clamps" || rows[0].Qty != nil || rows[0].Dimensions != "140 mm" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Category != "Fallback" || rows[1].Shape != "" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]string{" Item_Code ", "x", "Description 2", "DESCRIPTION", "code"})
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if h[FieldCode] != 0 {
		t.Errorf("code column = %d, want 0 (first wins)", h[FieldCode])
	}
	if h[FieldDescription] != 3 || h[FieldDescription2] != 2 {
		t.Errorf("description columns = %d, %d", h[FieldDescription], h[FieldDescription2])
	}

	if _, err := ParseHeader([]string{"foo", "bar"}); !errors.Is(err, ErrNoCodeColumn) {
		t.Errorf("ParseHeader() error = %v, want ErrNoCodeColumn", err)
	}
	if _, err := NewParser(nil).Rows([][]string{{"a"}, {"b"}}, ""); !errors.Is(err, ErrNoCodeColumn) {
		t.Errorf("Rows() error = %v, want ErrNoCodeColumn", err)
	}
}

func TestBrandMatcher(t *testing.T) {
	m := NewBrandMatcher([]string{"Allen", "Förster Ballenger", "  ", "B. Braun"})
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}

	tests := []struct {
		text string
		want string
	}{
		{"Forster-Ballenger sponge forceps", "Förster Ballenger"},
		{"Allen stirrups", "Allen"},
		{"ballenger only", ""},
		{"B-Braun scalpel", "B. Braun"},
		{"bbraun scalpel", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := m.Match(tt.text); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}

	var nilMatcher *BrandMatcher
	if got := nilMatcher.Match("Allen"); got != "" {
		t.Errorf("nil matcher Match() = %q", got)
	}
}

func TestExtractHelpers(t *testing.T) {
	if got := extractShape("Scissors, Slender tip, curved"); got != "slender" {
		t.Errorf("extractShape() = %q, want slender", got)
	}
	if got := extractShape("plain"); got != "" {
		t.Errorf("extractShape() = %q, want empty", got)
	}
	if got := extractDimensions("18 cm, 18 cm, 50–72 mm"); got != "18 cm, 50–72 mm" {
		t.Errorf("extractDimensions() = %q", got)
	}
	if got := removeBrand("Aesculap", "Aesculap"); got != "Aesculap" {
		t.Errorf("removeBrand() = %q, want the original when nothing remains", got)
	}
}

func TestParseQty(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"3.0", 3, true},
		{"3,0", 3, true},
		{"2.5", 0, false},
		{"", 0, false},
		{"many", 0, false},
	}
	for _, tt := range tests {
		got := parseQty(tt.in)
		if (got != nil) != tt.ok || (got != nil && *got != tt.want) {
			t.Errorf("parseQty(%q) = %v, want %v (ok %v)", tt.in, got, tt.want, tt.ok)
		}
	}
}
