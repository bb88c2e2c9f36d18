package layout

import (
	"slices"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

// Spec describes one treemap diagram.
type Spec struct {
	// Hierarchy lists the grouping fields, outermost first.
	Hierarchy []string
	// Area names the weight column.
	Area string
	// Quality names the column whose mean colors each cell. Optional.
	Quality string
	// Box is the region the bands are stacked in.
	Box Rect
	// Gap separates consecutive bands.
	Gap float64
	// BandHeight fixes the height of every band. Zero shares Box evenly.
	BandHeight float64
}

// Band is the partition of all records by one hierarchy prefix.
type Band struct {
	// Level is the number of hierarchy fields the band is grouped by.
	Level int
	// Fields is Hierarchy[:Level].
	Fields []string
	Rect   Rect
	Result
}

// TextField returns the deepest field of the band, whose values label the
// band's cells.
func (b Band) TextField() string { return b.Fields[len(b.Fields)-1] }

// Layout is a complete treemap diagram before painting.
type Layout struct {
	Spec  Spec
	Rows  int
	Bands []Band
}

// Diagnostics collects the diagnostics of every band.
func (l Layout) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, b := range l.Bands {
		out = append(out, b.Diagnostics...)
	}
	return out
}

// Cells returns the number of leaf cells over all bands.
func (l Layout) Cells() int {
	n := 0
	for _, b := range l.Bands {
		n += len(b.Cells)
	}
	return n
}

// BandRects stacks n bands of equal height inside box, top to bottom,
// separated by gap. With bandHeight > 0 every band gets that height
// regardless of the box height; otherwise the height is
// (box.Height() - (n-1)*gap) / n.
func BandRects(n int, box Rect, gap, bandHeight float64) []Rect {
	if n <= 0 {
		return nil
	}
	h := bandHeight
	if h <= 0 {
		h = (box.Height() - float64(n-1)*gap) / float64(n)
	}
	rects := make([]Rect, n)
	y := box.Y0
	for i := range rects {
		rects[i] = Rect{X0: box.X0, Y0: y, X1: box.X1, Y1: y + h}
		y += h + gap
	}
	return rects
}

// Build validates spec against t and partitions every band.
//
// Missing columns are reported together as one MISSING_COLUMN error and no
// band is built. Build never fails on data values: unusable weights count
// as zero and surface as diagnostics.
func Build(t *table.Table, spec Spec) (Layout, error) {
	if len(spec.Hierarchy) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "hierarchy must name at least one column")
	}
	if spec.Area == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "area column is required")
	}
	if spec.Box.Width() <= 0 || spec.Box.Height() <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidCanvas, "empty drawing box (%s)", spec.Box)
	}

	records, err := RecordsFrom(t, spec.Hierarchy, spec.Area, spec.Quality)
	if err != nil {
		return Layout{}, err
	}

	rects := BandRects(len(spec.Hierarchy), spec.Box, spec.Gap, spec.BandHeight)
	l := Layout{Spec: spec, Rows: len(records), Bands: make([]Band, len(rects))}
	for i, r := range rects {
		fields := slices.Clone(spec.Hierarchy[:i+1])
		l.Bands[i] = Band{
			Level:  i + 1,
			Fields: fields,
			Rect:   r,
			Result: Partition(records, fields, r),
		}
	}
	return l, nil
}
