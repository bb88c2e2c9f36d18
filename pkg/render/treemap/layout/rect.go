package layout

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in canvas units (millimetres).
// Y grows downwards, as in SVG.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// IsPortrait reports whether the rectangle is taller than it is wide.
func (r Rect) IsPortrait() bool { return r.Height() > r.Width() }

// IsTall reports whether height/width > 1, the condition for cutting the
// rectangle top/bottom.
func (r Rect) IsTall() bool { return r.Height()/r.Width() > 1 }

// Split cuts the rectangle so that the first part receives share of its
// extent. Tall rectangles are cut horizontally at Y0 + share*Height,
// all others vertically at X0 + share*Width. share is clamped to [0, 1].
func (r Rect) Split(share float64) (first, second Rect, horizontal bool) {
	share = math.Max(0, math.Min(1, share))
	if r.IsTall() {
		mid := r.Y0 + share*r.Height()
		return Rect{r.X0, r.Y0, r.X1, mid}, Rect{r.X0, mid, r.X1, r.Y1}, true
	}
	mid := r.X0 + share*r.Width()
	return Rect{r.X0, r.Y0, mid, r.Y1}, Rect{mid, r.Y0, r.X1, r.Y1}, false
}

// Overlaps reports whether r and o share an interior region larger than eps
// in both directions. Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect, eps float64) bool {
	dx := math.Min(r.X1, o.X1) - math.Max(r.X0, o.X0)
	dy := math.Min(r.Y1, o.Y1) - math.Max(r.Y0, o.Y0)
	return dx > eps && dy > eps
}

func (r Rect) String() string {
	return fmt.Sprintf("x0 %.2f y0 %.2f x1 %.2f y1 %.2f", r.X0, r.Y0, r.X1, r.Y1)
}
