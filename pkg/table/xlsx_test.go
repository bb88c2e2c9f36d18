package table

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/treesquares/treesquares/pkg/errors"
)

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "voronoi-output.xlsx")

	people := New("wd-personer", []string{"personLabel", "sv_size", "postnr"})
	people.Append([]string{"Selma Lagerlöf", "5120", "06830"})
	people.Append([]string{"Carl von Linné", "", "75236"})
	links := New("links", []string{"nr", "title"})
	links.Append([]string{"1", "Uppsala"})

	if err := WriteXLSX(path, people, links); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook() error = %v", err)
	}
	defer wb.Close()

	if diff := cmp.Diff([]string{"wd-personer", "links"}, wb.Sheets()); diff != "" {
		t.Errorf("Sheets() (-want +got):\n%s", diff)
	}

	got, err := wb.Table("wd-personer")
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if diff := cmp.Diff(people.Columns, got.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(people.Rows, got.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}

	first, err := wb.Table("")
	if err != nil || first.Name != "wd-personer" {
		t.Errorf("Table(\"\") = %v, %v; want first sheet", first, err)
	}

	_, err = wb.Table("wd-place")
	if !errors.Is(err, errors.ErrCodeSheetNotFound) {
		t.Errorf("Table(missing) error = %v, want SHEET_NOT_FOUND", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "data.ods"), "")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Open(.ods) error = %v, want INVALID_FORMAT", err)
	}

	_, err = Open(filepath.Join(dir, "missing.xlsx"), "Voronoi")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Open(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{"2.5", 2.5},
		{"0.5", 0.5},
		{"06830", "06830"},
		{"3,5", "3,5"},
		{"Uppsala", "Uppsala"},
		{"NaN", "NaN"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cellValue(tt.in); got != tt.want {
			t.Errorf("cellValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"voronoi.xlsx", "voronoi-output.xlsx"},
		{"data/Orter.xlsx", "data/Orter-output.xlsx"},
		{"lan.csv", "lan-output.xlsx"},
		{"noext", "noext-output.xlsx"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
