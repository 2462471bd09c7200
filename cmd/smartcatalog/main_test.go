package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/smartcatalog"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"3", []int{3}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 2 - 3 , 7 ", []int{2, 3, 7}, false},
		{"0", nil, true},
		{"5-3", nil, true},
		{"a", nil, true},
		{"1-x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePages(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePages(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePages(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range [][]interface{}{
		{"Code", "Brand", "Type", "Dimensions"},
		{"12-345-67", "Aesculap", "Forceps curved", "140 mm"},
		{"12-345-68", "Aesculap", "Forceps straight", "160 mm"},
		{"11-111-11", "Martin", "Beaker", "250 ml"},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(dir, "reference.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestImportAndMatch(t *testing.T) {
	dir := t.TempDir()
	workbook := writeWorkbook(t, dir)
	db := filepath.Join(dir, "catalog.sqlite")

	if _, err := run(t, "import", workbook, "--db", db); err != nil {
		t.Fatalf("import error = %v", err)
	}

	queries := filepath.Join(dir, "queries.yaml")
	if err := os.WriteFile(queries, []byte(`
queries:
  - id: q1
    brand: Aesculap
    type: forceps
    shape: curved
    length: {value: 140}
    expected_code: 12-345-67
`), 0644); err != nil {
		t.Fatalf("write queries: %v", err)
	}

	out, err := run(t, "match", queries, "--db", db, "--format", "json")
	if err != nil {
		t.Fatalf("match error = %v", err)
	}

	var report smartcatalog.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Results) != 1 || report.Results[0].Result.Best == nil {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Results[0].Result.Best.Code; got != "12-345-67" {
		t.Errorf("best code = %q, want 12-345-67", got)
	}
	if report.Summary.Accuracy != 1 {
		t.Errorf("accuracy = %g, want 1", report.Summary.Accuracy)
	}

	// the same queries straight against the workbook, as text
	out, err = run(t, "match", queries, "--ref", workbook)
	if err != nil {
		t.Fatalf("match --ref error = %v", err)
	}
	if !strings.Contains(out, "12-345-67 Aesculap Forceps curved") {
		t.Errorf("text report = %q", out)
	}
}

func TestMatch_Requirements(t *testing.T) {
	dir := t.TempDir()
	workbook := writeWorkbook(t, dir)

	requirements := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(requirements, []byte(
		"# tender lot 4\n"+
			"Forceps, curved, length >= 14 cm\tCatalogue 12 – 345 – 67\n"+
			"\n"+
			"Beaker, capacity 250 ml\t11-111-11\n"), 0644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}

	out, err := run(t, "match", requirements, "--ref", workbook, "--format", "json")
	if err != nil {
		t.Fatalf("match error = %v", err)
	}

	var report smartcatalog.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Summary.Queries != 2 || report.Summary.Evaluated != 2 {
		t.Fatalf("summary = %+v, want 2 evaluated queries", report.Summary)
	}
	if report.Summary.Accuracy != 1 {
		t.Errorf("accuracy = %g, want 1", report.Summary.Accuracy)
	}
	if id := report.Results[1].Result.Query.ID; id != "line 4" {
		t.Errorf("second query ID = %q, want %q", id, "line 4")
	}
}

func TestMatch_FlagErrors(t *testing.T) {
	if _, err := run(t, "match", "q.yaml"); err == nil {
		t.Error("match without a reference should fail")
	}
	if _, err := run(t, "match", "q.yaml", "--db", "a", "--ref", "b"); err == nil {
		t.Error("match with both --db and --ref should fail")
	}
	if _, err := run(t, "match", "q.yaml", "--ref", "b", "--format", "csv"); err == nil {
		t.Error("match with an unknown format should fail")
	}
}

func TestReadReferenceRows_UnknownFormat(t *testing.T) {
	if _, err := readReferenceRows("list.csv", nil); err == nil {
		t.Error("readReferenceRows() should reject .csv")
	}
}
