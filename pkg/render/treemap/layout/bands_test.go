package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

func TestBandRects(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		box        Rect
		gap, fixed float64
		want       []Rect
	}{
		{
			name: "shared height",
			n:    2, box: Rect{0, 0, 332, 241.9}, gap: 3,
			want: []Rect{{0, 0, 332, 119.45}, {0, 122.45, 332, 241.9}},
		},
		{
			name: "fixed height",
			n:    3, box: Rect{5, 5, 205, 297}, gap: 5, fixed: 68,
			want: []Rect{{5, 5, 205, 73}, {5, 78, 205, 146}, {5, 151, 205, 219}},
		},
		{name: "none", n: 0, box: Rect{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BandRects(tt.n, tt.box, tt.gap, tt.fixed)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("BandRects() (-want +got):\n%s", diff)
			}
		})
	}
}

func kommuner() *table.Table {
	t := table.New("kommuner", []string{"lan", "kommun", "invanare", "andel"})
	t.Append([]string{"Uppsala", "Uppsala", "240000", "0.7"})
	t.Append([]string{"Uppsala", "Enköping", "46000", "0.4"})
	t.Append([]string{"Gotland", "Gotland", "61000", ""})
	t.Append([]string{"Jämtland", "Östersund", "64000", "0.5"})
	return t
}

func TestBuild(t *testing.T) {
	spec := Spec{
		Hierarchy: []string{"lan", "kommun"},
		Area:      "invanare",
		Quality:   "andel",
		Box:       Rect{0, 0, 332, 241.9},
		Gap:       3,
	}
	l, err := Build(kommuner(), spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if l.Rows != 4 || len(l.Bands) != 2 {
		t.Fatalf("Build() rows %d bands %d, want 4 and 2", l.Rows, len(l.Bands))
	}

	// Three län in the first band, four kommuner in the second.
	if got := len(l.Bands[0].Cells); got != 3 {
		t.Errorf("band 1 cells = %d, want 3", got)
	}
	if got := len(l.Bands[1].Cells); got != 4 {
		t.Errorf("band 2 cells = %d, want 4", got)
	}
	if l.Bands[1].TextField() != "kommun" {
		t.Errorf("band 2 text field = %q", l.Bands[1].TextField())
	}
	for _, b := range l.Bands {
		if got, want := b.Area(), b.Rect.Area(); math.Abs(got-want) > 1e-6 {
			t.Errorf("band %d area = %v, want %v", b.Level, got, want)
		}
	}
	if l.Cells() != 7 || len(l.Diagnostics()) != 0 {
		t.Errorf("Cells() = %d, Diagnostics() = %v", l.Cells(), l.Diagnostics())
	}

	q := l.Bands[0].Cells[2].Records[0].Quality
	if l.Bands[0].Cells[2].Records[0].Keys[0] == "Gotland" && !math.IsNaN(q) {
		t.Errorf("empty quality read as %v, want NaN", q)
	}
}

func TestBuildNonFiniteArea(t *testing.T) {
	tb := table.New("orter", []string{"ort", "yta"})
	tb.Append([]string{"x", "Inf"})
	tb.Append([]string{"y", "-Infinity"})
	tb.Append([]string{"z", "1"})

	l, err := Build(tb, Spec{Hierarchy: []string{"ort"}, Area: "yta", Box: Rect{0, 0, 100, 50}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	cells := l.Bands[0].Cells
	if len(cells) != 1 || cells[0].Records[0].Keys[0] != "z" {
		t.Fatalf("cells = %+v, want only z", cells)
	}
	if diff := cmp.Diff(Rect{0, 0, 100, 50}, cells[0].Rect, approx); diff != "" {
		t.Errorf("z rect (-want +got):\n%s", diff)
	}
	diags := l.Diagnostics()
	if len(diags) != 1 || diags[0].Rows != 2 || !strings.Contains(diags[0].Message, "non-positive weight") {
		t.Errorf("diagnostics = %+v, want x and y dropped", diags)
	}
}

func TestBuildErrors(t *testing.T) {
	box := Rect{0, 0, 100, 100}
	tests := []struct {
		name string
		spec Spec
		code errors.Code
	}{
		{"missing columns", Spec{Hierarchy: []string{"lan", "ort"}, Area: "yta", Quality: "andel", Box: box}, errors.ErrCodeMissingColumn},
		{"no hierarchy", Spec{Area: "invanare", Box: box}, errors.ErrCodeInvalidInput},
		{"no area", Spec{Hierarchy: []string{"lan"}, Box: box}, errors.ErrCodeInvalidInput},
		{"empty box", Spec{Hierarchy: []string{"lan"}, Area: "invanare"}, errors.ErrCodeInvalidCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(kommuner(), tt.spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCheckColumnsListsAll(t *testing.T) {
	err := CheckColumns(kommuner(), []string{"lan", "ort"}, "yta", "kvalitet")
	want := "MISSING_COLUMN: kommuner: missing columns yta, ort, kvalitet"
	if err == nil || err.Error() != want {
		t.Errorf("CheckColumns() = %v, want %q", err, want)
	}
}
