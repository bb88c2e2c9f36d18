package palette

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

func TestFromTable(t *testing.T) {
	sheet := table.New("farger", []string{"color", "pf_color", "hex"})
	sheet.Append([]string{"röd", "PF Red", "#c0392b"})
	sheet.Append([]string{"grön", "", "#27ae60"})
	sheet.Append([]string{"tom", "PF Empty", ""})

	p, err := FromTable(sheet)
	if err != nil {
		t.Fatalf("FromTable() error = %v", err)
	}
	want := Palette{"röd": "#c0392b", "PF Red": "#c0392b", "grön": "#27ae60"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
}

func TestFromTableMissingColumns(t *testing.T) {
	sheet := table.New("farger", []string{"color", "r", "g", "b"})
	_, err := FromTable(sheet)
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("FromTable() error = %v, want MISSING_COLUMN", err)
	}
}

func ExamplePalette_Resolve() {
	p := Palette{"ljusblå": "#a9cce3"}
	fmt.Println(p.Resolve("ljusblå"))
	fmt.Println(p.Resolve("white"))

	var none Palette
	fmt.Println(none.Resolve("#000"))
	// Output:
	// #a9cce3
	// white
	// #000
}
