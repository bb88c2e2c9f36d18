package sink

import (
	"fmt"
	"strings"
	"time"

	"github.com/treesquares/treesquares/pkg/palette"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
)

// DefaultFormat is the page used when no canvas is given.
const DefaultFormat = "A3w-5spalter"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	canvas    *svg.Canvas
	palette   palette.Palette
	rules     styles.Rules
	title     string
	desc      string
	timestamp time.Time
	frame     string
	comments  []string
}

func WithCanvas(c *svg.Canvas) SVGOption      { return func(r *svgRenderer) { r.canvas = c } }
func WithPalette(p palette.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }
func WithRules(rules styles.Rules) SVGOption  { return func(r *svgRenderer) { r.rules = rules } }
func WithTimestamp(ts time.Time) SVGOption    { return func(r *svgRenderer) { r.timestamp = ts } }
func WithComment(text string) SVGOption       { return func(r *svgRenderer) { r.comments = append(r.comments, text) } }
func WithTitle(title, desc string) SVGOption {
	return func(r *svgRenderer) { r.title, r.desc = title, desc }
}

// WithFrame outlines the canvas frame defined under name.
func WithFrame(name string) SVGOption { return func(r *svgRenderer) { r.frame = name } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{desc: "treesquares"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.canvas == nil {
		r.canvas, _ = svg.NewCanvas(DefaultFormat)
		_ = r.canvas.SetOrientation(svg.Landscape)
	}
	if r.timestamp.IsZero() {
		r.timestamp = time.Now()
	}
	return r
}

// RenderSVG paints every band of l onto one page.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	doc := svg.NewDocument(r.canvas, r.palette)

	doc.Header(r.title, r.desc, r.timestamp, "")
	doc.Comment(fmt.Sprintf("Parameters: Levels %s Area %s Quality %s Borders %s",
		strings.Join(l.Spec.Hierarchy, ","), l.Spec.Area, l.Spec.Quality, r.rules))
	doc.Comment("Canvas: " + r.canvas.String())
	for _, c := range r.comments {
		doc.Comment(c)
	}

	if f, ok := r.canvas.Frame(r.frame); ok && r.frame != "" {
		doc.Comment("Plot " + r.frame + " frame")
		doc.Rect(f.Left, f.Top, f.Width, f.Height, nil)
	}

	cols := append(append([]string(nil), l.Spec.Hierarchy...), l.Spec.Area, l.Spec.Quality)
	for _, b := range l.Bands {
		doc.Comment(fmt.Sprintf("Level %s, cols [%s]", strings.Join(b.Fields, "/"), strings.Join(cols, ", ")))
		for _, op := range styles.PaintBand(b, r.rules) {
			renderCell(doc, op)
		}
		for _, d := range b.Diagnostics {
			doc.Comment(fmt.Sprintf("%s (%s)", d.Message, d.Rect))
		}
	}

	doc.Footer("")
	return doc.Bytes()
}

func renderCell(doc *svg.Document, op styles.PaintOp) {
	doc.Rect(op.Rect.X0, op.Rect.Y0, op.Rect.Width(), op.Rect.Height(), svg.Style{{Name: "fill", Value: op.Background}})
	if !op.HasText() {
		doc.Comment(op.Note)
		return
	}
	doc.Comment(op.Comment())
	doc.Text(op.Rect.CenterX(), op.Rect.CenterY(), op.Label, svg.Style{
		{Name: "font-size", Value: svg.Num(op.FontSize)},
		{Name: "text-anchor", Value: "middle"},
		{Name: "dominant-baseline", Value: "central"},
		{Name: "fill", Value: op.Foreground},
	}, op.Rotate)
}
