package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tsawler/smartcatalog/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func TestUpsert_KeepsStoredFields(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.Upsert(ctx, []model.ReferenceRow{
		{Code: "12-345-67", Brand: "Aesculap", Type: "Forceps", Dimensions: "140 mm", Qty: intPtr(4), Category: "Clamps"},
		{Code: "98-765-43", Type: "Scissors"},
		{Code: "  ", Type: "no code"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Upsert() = %d, want 2", n)
	}

	// second import carries only some fields
	if _, err := s.Upsert(ctx, []model.ReferenceRow{
		{Code: "12-345-67", Shape: "curved", Dimensions: ""},
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	it, err := s.Item(ctx, "12-345-67")
	if err != nil {
		t.Fatalf("Item() error = %v", err)
	}
	if it.Brand != "Aesculap" || it.Type != "Forceps" || it.Shape != "curved" || it.Dimensions != "140 mm" {
		t.Errorf("Item() = %+v", it)
	}
	if it.Qty == nil || *it.Qty != 4 {
		t.Errorf("Item() qty = %v, want 4", it.Qty)
	}
	if it.PDFPage != nil {
		t.Errorf("Item() pdf page = %v, want nil", *it.PDFPage)
	}

	rows, err := s.ReferenceRows(ctx)
	if err != nil {
		t.Fatalf("ReferenceRows() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Code != "12-345-67" || rows[1].Code != "98-765-43" {
		t.Errorf("ReferenceRows() = %+v", rows)
	}
	if rows[1].Qty != nil {
		t.Errorf("rows[1] qty = %v, want nil", *rows[1].Qty)
	}
}

func TestItem_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Item(context.Background(), "00-000-00"); !errors.Is(err, ErrNoRows) {
		t.Errorf("Item() error = %v, want ErrNoRows", err)
	}
}

func TestAttachEntries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Upsert(ctx, []model.ReferenceRow{
		{Code: "12-345-67", Type: "Forceps", Dimensions: "18 cm"},
		{Code: "11-111-11", Type: "Beaker"},
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := s.AttachEntries(ctx, []model.CatalogEntry{
		{Code: "12–345–67", Category: "Forceps", Author: "Aesculap", ShortDescription: "Forceps curved", DimensionText: "140 mm", Page: 3},
		{Code: "55-555-55", Category: "Unknown", Page: 1},
	})
	if err != nil {
		t.Fatalf("AttachEntries() error = %v", err)
	}
	if n != 1 {
		t.Errorf("AttachEntries() = %d, want 1", n)
	}

	it, err := s.Item(ctx, "12-345-67")
	if err != nil {
		t.Fatalf("Item() error = %v", err)
	}
	if it.ProductGroup != "Forceps" {
		t.Errorf("ProductGroup = %q, want %q", it.ProductGroup, "Forceps")
	}
	if it.PDFPage == nil || *it.PDFPage != 3 {
		t.Errorf("PDFPage = %v, want 3", it.PDFPage)
	}
	if it.PDFText != "Aesculap | Forceps curved | 140 mm" {
		t.Errorf("PDFText = %q", it.PDFText)
	}
	if it.Dimensions != "18 cm, 140 mm" {
		t.Errorf("Dimensions = %q, want %q", it.Dimensions, "18 cm, 140 mm")
	}

	// a later catalog keeps the group and adds only new text
	if _, err := s.AttachEntries(ctx, []model.CatalogEntry{
		{Code: "12-345-67", Category: "Clamps", Author: "Aesculap", ShortDescription: "Forceps straight", Page: 7},
	}); err != nil {
		t.Fatalf("AttachEntries() error = %v", err)
	}
	it, err = s.Item(ctx, "12-345-67")
	if err != nil {
		t.Fatalf("Item() error = %v", err)
	}
	if it.ProductGroup != "Forceps" {
		t.Errorf("ProductGroup = %q, want %q", it.ProductGroup, "Forceps")
	}
	if *it.PDFPage != 7 {
		t.Errorf("PDFPage = %d, want 7", *it.PDFPage)
	}
	if it.PDFText != "Aesculap | Forceps curved | 140 mm | Forceps straight" {
		t.Errorf("PDFText = %q", it.PDFText)
	}
	if it.Dimensions != "18 cm, 140 mm" {
		t.Errorf("Dimensions = %q", it.Dimensions)
	}

	if _, err := s.Item(ctx, "55-555-55"); !errors.Is(err, ErrNoRows) {
		t.Errorf("unknown code was inserted: %v", err)
	}
}

func TestMergeHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"join skips blanks and repeats", joinUnique(" | ", "a", "", " a ", "b"), "a | b"},
		{"merge empty existing", mergeText("", "x | y"), "x | y"},
		{"merge overlapping", mergeText("x | y", "y | z"), "x | y | z"},
		{"dimensions none found", unionDimensions("n/a", "text"), "n/a"},
		{"dimensions union", unionDimensions("Ø 2 mm", "50-72 mm | Ø 2 mm"), "Ø 2 mm, 50-72 mm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
