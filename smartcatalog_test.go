package smartcatalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/smartcatalog/layout"
	"github.com/tsawler/smartcatalog/model"
)

// buildPDF writes a minimal PDF with one page per content stream, all
// sharing a 600x800 MediaBox and a Helvetica font.
func buildPDF(contents ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, len(contents))
	for i := range contents {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 600 800] >>", strings.Join(kids, " "), len(contents)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>")
	for i, content := range contents {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func writeCatalogPDF(t *testing.T) string {
	t.Helper()
	page1 := "BT /F1 14 Tf 50 760 Td (Pinzetten) Tj ET\n" +
		"BT /F1 14 Tf 50 740 Td (Forceps) Tj ET\n" +
		"BT /F1 12 Tf 100 500 Td (BUCK) Tj ET\n" +
		"BT /F1 10 Tf 100 480 Td (12-345-67) Tj ET"
	page2 := "BT /F1 10 Tf 100 480 Td (12-345-67) Tj ET\n" +
		"BT /F1 10 Tf 160 480 Td (18 cm) Tj ET"
	page3 := "BT /F1 10 Tf 100 400 Td (No codes on this page) Tj ET"

	path := filepath.Join(t.TempDir(), "catalog.pdf")
	if err := os.WriteFile(path, buildPDF(page1, page2, page3), 0644); err != nil {
		t.Fatalf("Failed to write PDF: %v", err)
	}
	return path
}

func TestOpen_Missing(t *testing.T) {
	_, _, err := Open("nonexistent.pdf").Entries(context.Background())
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestEntries_PDF(t *testing.T) {
	path := writeCatalogPDF(t)

	count, err := Open(path).PageCount()
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("PageCount() = %d, want 3", count)
	}

	entries, warnings, err := Open(path).Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 merged entry, got %d: %+v", len(entries), entries)
	}

	e := entries[0]
	if e.Code != "12-345-67" || e.Page != 1 {
		t.Errorf("entry = %+v, want code 12-345-67 on page 1", e)
	}
	if e.Category != "Forceps" {
		t.Errorf("Category = %q, want %q", e.Category, "Forceps")
	}
	if e.Author != "BUCK" {
		t.Errorf("Author = %q, want %q", e.Author, "BUCK")
	}
	if !strings.Contains(e.DimensionText, "18") {
		t.Errorf("DimensionText = %q, want the page 2 dimension", e.DimensionText)
	}
}

func TestPageResults_PageSelection(t *testing.T) {
	path := writeCatalogPDF(t)

	results, _, err := Open(path).Pages(3, 2, 2).PageResults(context.Background())
	if err != nil {
		t.Fatalf("PageResults() error = %v", err)
	}
	if len(results) != 2 || results[0].Number != 2 || results[1].Number != 3 {
		t.Fatalf("PageResults() pages = %+v", results)
	}
	if len(results[0].Entries) != 1 || len(results[1].Entries) != 0 {
		t.Errorf("entries per page = %d, %d; want 1, 0", len(results[0].Entries), len(results[1].Entries))
	}

	results, _, err = Open(path).PageRange(1, 2).PageResults(context.Background())
	if err != nil {
		t.Fatalf("PageRange() error = %v", err)
	}
	if len(results) != 2 || results[0].Category != "Forceps" {
		t.Errorf("PageRange(1, 2) = %+v", results)
	}

	if _, _, err := Open(path).Pages(4).Entries(context.Background()); err == nil {
		t.Error("expected error for out of range page")
	}
}

func TestExtractor_Immutable(t *testing.T) {
	base := Open("catalog.pdf")
	withPages := base.Pages(1)
	withConfig := withPages.WithConfig(layout.Config{RowTolerance: 1})

	if len(base.options.pages) != 0 {
		t.Errorf("base pages = %v, want none", base.options.pages)
	}
	if len(withConfig.options.pages) != 1 {
		t.Errorf("pages = %v, want [1]", withConfig.options.pages)
	}
	if withPages.options.layout.RowTolerance != 25 {
		t.Errorf("RowTolerance = %g, want default 25", withPages.options.layout.RowTolerance)
	}

	if _, _, err := base.Workers(-1).Entries(context.Background()); err == nil {
		t.Error("expected error for negative workers")
	}
}

func TestExtractor_ReusedAfterClose(t *testing.T) {
	ext := Open(writeCatalogPDF(t)).Pages(1)

	for i := 0; i < 2; i++ {
		entries, _, err := ext.Entries(context.Background())
		if err != nil {
			t.Fatalf("Entries() call %d error = %v", i+1, err)
		}
		if len(entries) != 1 {
			t.Errorf("Entries() call %d returned %d entries, want 1", i+1, len(entries))
		}
	}
}

// catalogPage builds a two-card page with a bilingual header
func catalogPage(number int, codes ...string) *model.Page {
	page := model.NewPage(number, model.BBox{X0: 0, Y0: 0, X1: 600, Y1: 800})
	page.AddSpan(model.Span{Text: "Scheren", BBox: model.BBox{X0: 50, Y0: 20, X1: 100, Y1: 30}, FontSize: 12})
	page.AddSpan(model.Span{Text: "Scissors", BBox: model.BBox{X0: 50, Y0: 40, X1: 100, Y1: 50}, FontSize: 12, LineKey: model.LineKey{Block: 1}})
	for i, code := range codes {
		x := 100 + 300*float64(i)
		block := 2 + 2*i
		page.AddSpan(model.Span{Text: "BUCK", BBox: model.BBox{X0: x, Y0: 185, X1: x + 30, Y1: 195}, FontSize: 9, LineKey: model.LineKey{Block: block}})
		page.AddSpan(model.Span{Text: code, BBox: model.BBox{X0: x, Y0: 200, X1: x + 50, Y1: 208}, FontSize: 8, LineKey: model.LineKey{Block: block + 1}})
	}
	return page
}

func TestAssemblePages_Order(t *testing.T) {
	var pages []*model.Page
	for i := 1; i <= 20; i++ {
		pages = append(pages, catalogPage(i, fmt.Sprintf("10-000-%02d", i)))
	}

	results, err := assemblePages(context.Background(), pages, layout.DefaultConfig(), 4)
	if err != nil {
		t.Fatalf("assemblePages() error = %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("Expected 20 results, got %d", len(results))
	}
	for i, r := range results {
		want := fmt.Sprintf("10-000-%02d", i+1)
		if r.Number != i+1 || len(r.Entries) != 1 || r.Entries[0].Code != want {
			t.Errorf("results[%d] = page %d %+v, want %s", i, r.Number, r.Entries, want)
		}
		if r.Category != "Scissors" {
			t.Errorf("results[%d] category = %q", i, r.Category)
		}
	}
}

func TestAssemblePages_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := assemblePages(ctx, []*model.Page{catalogPage(1, "12-345-67")}, layout.DefaultConfig(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("assemblePages() error = %v, want context.Canceled", err)
	}
}

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{
		{Page: 2, Message: "no text layer"},
		{Message: "general"},
	})
	want := "page 2: no text layer\ngeneral"
	if got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
	if FormatWarnings(nil) != "" {
		t.Error("FormatWarnings(nil) should be empty")
	}
}

func TestMust(t *testing.T) {
	if got := Must(3, nil); got != 3 {
		t.Errorf("Must() = %d, want 3", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustEntries() should panic on error")
		}
	}()
	MustEntries([]model.CatalogEntry(nil), nil, errors.New("boom"))
}
