package styles

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
)

// PaintOp is everything needed to draw one cell.
type PaintOp struct {
	Rect       layout.Rect
	Label      string
	Background string
	Foreground string
	FontSize   float64
	MaxPoint   float64
	Rotate     float64
	// Quality is the mean quality of the cell's rows, NaN when none is known.
	Quality float64
	Weight  float64
	Rows    int
	// Note explains why the label is not drawn. Empty when it is.
	Note string
}

// HasText reports whether the label should be drawn.
func (op PaintOp) HasText() bool { return op.Note == "" }

// Comment returns the annotation written next to a drawn label.
func (op PaintOp) Comment() string {
	return fmt.Sprintf("%s: max_point_size %.2f textsize %g", op.Label, op.MaxPoint, op.FontSize)
}

// Paint styles a cell. textLevel is the 1-based hierarchy field whose
// values label the cell.
func Paint(c layout.Cell, textLevel int, rules Rules) PaintOp {
	q := MeanQuality(c.Records)
	bg, fg := rules.Classify(q)

	labels := make([]string, 0, len(c.Records))
	for _, r := range c.Records {
		if textLevel >= 1 && textLevel <= len(r.Keys) {
			labels = append(labels, r.Keys[textLevel-1])
		}
	}
	label := Label(labels)

	w, h := c.Rect.Width(), c.Rect.Height()
	size, maxPoint := FontSize(w, h, label)

	op := PaintOp{
		Rect:       c.Rect,
		Label:      label,
		Background: bg,
		Foreground: fg,
		FontSize:   size,
		MaxPoint:   maxPoint,
		Rotate:     Rotation(w, h),
		Quality:    q,
		Weight:     c.Weight(),
		Rows:       len(c.Records),
	}
	if label == "" {
		op.Note = fmt.Sprintf("text_width 0 for x0 %g y0 %g x1 %g y1 %g", c.Rect.X0, c.Rect.Y0, c.Rect.X1, c.Rect.Y1)
	}
	return op
}

// PaintBand styles every cell of a band, in paint order.
func PaintBand(b layout.Band, rules Rules) []PaintOp {
	ops := make([]PaintOp, len(b.Cells))
	for i, c := range b.Cells {
		ops[i] = Paint(c, b.Level, rules)
	}
	return ops
}

// MeanQuality averages the finite quality values of records, or returns
// NaN when there are none.
func MeanQuality(records []layout.Record) float64 {
	var qs []float64
	for _, r := range records {
		if !math.IsNaN(r.Quality) && !math.IsInf(r.Quality, 0) {
			qs = append(qs, r.Quality)
		}
	}
	if len(qs) == 0 {
		return math.NaN()
	}
	return stat.Mean(qs, nil)
}
