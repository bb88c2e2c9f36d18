package styles

import (
	"math"
	"unicode/utf8"

	"github.com/treesquares/treesquares/pkg/table"
)

const (
	fontSizeMax     = 24.0
	fontFillRatio   = 0.9
	fontScale       = 14.0
	fontScaleFactor = 0.1
)

// FontSize sizes a label written in a w by h cell. maxPoint is 90% of the
// side the text runs across (the width of a portrait cell, otherwise the
// height). size is min(maxPoint, 24, 0.1*floor(14*ratio)) where ratio is
// the longer side per character. An empty label has size 0.
func FontSize(w, h float64, label string) (size, maxPoint float64) {
	maxPoint = fontFillRatio * h
	if h > w {
		maxPoint = fontFillRatio * w
	}
	n := utf8.RuneCountInString(label)
	if n == 0 {
		return 0, maxPoint
	}
	ratio := math.Max(w/float64(n), h/float64(n))
	size = math.Min(maxPoint, math.Min(fontSizeMax, fontScaleFactor*math.Trunc(fontScale*ratio)))
	return size, maxPoint
}

// Rotation returns the label angle for a w by h cell: -90 for portrait
// cells, 0 otherwise.
func Rotation(w, h float64) float64 {
	if h > w {
		return -90
	}
	return 0
}

// Label picks the text shown for a group of values: the smallest under
// [table.Compare].
func Label(values []string) string {
	return table.Min(values...)
}
