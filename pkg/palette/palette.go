// Package palette maps application color names to SVG color values.
//
// Color sheets name each color twice, once in the application's own
// vocabulary (column "color") and once under an alternate print name
// (column "pf_color"); both resolve to the value in column "hex". Names
// that are not in the palette pass through unchanged, so plain SVG color
// keywords and literal hex values work without a sheet.
package palette

import (
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

// Column names of a color sheet.
const (
	ColumnColor   = "color"
	ColumnPFColor = "pf_color"
	ColumnHex     = "hex"
)

// Palette maps color names to SVG color values.
type Palette map[string]string

// FromTable builds a palette from a color sheet. The "color" and "hex"
// columns are required; "pf_color" is optional. Rows without a hex value
// are ignored.
func FromTable(t *table.Table) (Palette, error) {
	if missing := t.Missing(ColumnColor, ColumnHex); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMissingColumn,
			"color sheet %q is missing columns %s", t.Name, strings.Join(missing, ", "))
	}

	p := make(Palette, t.Len())
	for i := range t.Rows {
		hex := strings.TrimSpace(t.Value(i, ColumnHex))
		if hex == "" {
			continue
		}
		for _, col := range []string{ColumnColor, ColumnPFColor} {
			if name := strings.TrimSpace(t.Value(i, col)); name != "" {
				p[name] = hex
			}
		}
	}
	return p, nil
}

// Resolve returns the value for name, or name itself when it is unknown.
// A nil palette resolves every name to itself.
func (p Palette) Resolve(name string) string {
	if v, ok := p[name]; ok {
		return v
	}
	return name
}
