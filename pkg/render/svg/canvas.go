// Package svg writes millimetre-based SVG documents on standard paper
// formats.
//
// A [Canvas] fixes the page size and orientation and carries named margin
// frames; a [Document] appends elements to a buffer in call order and
// translates fill and stroke colors through a palette.
package svg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
)

// Format is a named page size in millimetres.
type Format struct {
	Name   string
	Width  float64
	Height float64
}

// Formats lists the supported page sizes.
var Formats = []Format{
	{"A4", 210, 297},
	{"A4w-square", 210, 210},
	{"A4w-2-3", 210, 140},
	{"A3w-5spalter", 332, 241.9},
	{"A4w-3spalter", 186, 258.4},
	{"A4w-16-9", 210, 118.125},
	{"A4w-21-9", 210, 90},
}

// FormatNames returns the names of all supported formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name
	}
	return names
}

// LookupFormat returns the format called name.
func LookupFormat(name string) (Format, error) {
	for _, f := range Formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, errors.New(errors.ErrCodeInvalidCanvas,
		"unsupported canvas format %q (valid: %s)", name, strings.Join(FormatNames(), ", "))
}

// Orientation selects which page side is the width.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Margins are distances from the page edges.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Frame is the region inside a set of margins, in page coordinates.
type Frame struct {
	Top, Right, Bottom, Left float64
	Width, Height            float64
	XMid, YMid               float64
	AspectRatio              float64
}

// Canvas is a page with named margin frames.
type Canvas struct {
	Format      string
	Orientation Orientation
	Width       float64
	Height      float64

	margins map[string]Margins
	frames  map[string]Frame
}

// NewCanvas creates a canvas in the format's native orientation.
func NewCanvas(format string) (*Canvas, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return nil, err
	}
	return &Canvas{
		Format:  f.Name,
		Width:   f.Width,
		Height:  f.Height,
		margins: map[string]Margins{},
		frames:  map[string]Frame{},
	}, nil
}

// SetOrientation turns the page: portrait puts the shorter side across,
// landscape the longer one. Frames defined earlier are recomputed.
func (c *Canvas) SetOrientation(o Orientation) error {
	small, large := min(c.Width, c.Height), max(c.Width, c.Height)
	switch o {
	case Portrait:
		c.Width, c.Height = small, large
	case Landscape:
		c.Width, c.Height = large, small
	default:
		return errors.New(errors.ErrCodeInvalidCanvas, "unsupported orientation %q (valid: portrait, landscape)", o)
	}
	c.Orientation = o
	for name, m := range c.margins {
		c.frames[name] = c.frame(m)
	}
	return nil
}

// DefineMargins records margins under name and returns the resulting frame.
func (c *Canvas) DefineMargins(name string, m Margins) Frame {
	c.margins[name] = m
	f := c.frame(m)
	c.frames[name] = f
	return f
}

// Frame returns the frame defined under name.
func (c *Canvas) Frame(name string) (Frame, bool) {
	f, ok := c.frames[name]
	return f, ok
}

// Margins returns the margins defined under name.
func (c *Canvas) Margins(name string) (Margins, bool) {
	m, ok := c.margins[name]
	return m, ok
}

func (c *Canvas) frame(m Margins) Frame {
	f := Frame{
		Top:    m.Top,
		Right:  c.Width - m.Right,
		Bottom: c.Height - m.Bottom,
		Left:   m.Left,
	}
	f.Width = f.Right - f.Left
	f.Height = f.Bottom - f.Top
	f.XMid = f.Left + f.Width/2
	f.YMid = f.Top + f.Height/2
	if f.Width != 0 {
		f.AspectRatio = f.Height / f.Width
	}
	return f
}

// String describes the canvas for document comments.
func (c *Canvas) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %gx%g mm", c.Format, c.Orientation, c.Width, c.Height)
	names := make([]string, 0, len(c.frames))
	for n := range c.frames {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		f := c.frames[n]
		fmt.Fprintf(&b, "; %s %g,%g-%g,%g", n, f.Left, f.Top, f.Right, f.Bottom)
	}
	return b.String()
}
