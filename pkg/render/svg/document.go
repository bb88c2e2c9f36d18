package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/treesquares/treesquares/pkg/palette"
)

// TimestampFormat formats the generation time written into the header.
const TimestampFormat = "Mon 02.01.2006 15:04:05"

const styleSheet = `
    .header { font-family: Vollkorn; font-size: 3mm; }
    .small_header { font-size: 1.5mm; }
    text {font-family: Open Sans; font-size: 2mm;
          fill: black; stroke: none; }
    polyline, rect {fill: none;}
    * { stroke: black; stroke-width: 0.2; }
    `

// Property is one CSS declaration.
type Property struct {
	Name  string
	Value string
}

// Style is an ordered list of CSS declarations.
type Style []Property

// With returns a copy of s with name set to value.
func (s Style) With(name, value string) Style {
	out := make(Style, 0, len(s)+1)
	replaced := false
	for _, p := range s {
		if p.Name == name {
			p.Value = value
			replaced = true
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, Property{name, value})
	}
	return out
}

// Document accumulates SVG markup.
type Document struct {
	canvas  *Canvas
	palette palette.Palette
	buf     bytes.Buffer
}

// NewDocument starts an empty document for canvas. Fill and stroke colors
// are resolved through p, which may be nil.
func NewDocument(c *Canvas, p palette.Palette) *Document {
	return &Document{canvas: c, palette: p}
}

// Header writes the XML prolog, the <svg> element, title and description,
// a timestamp comment and the shared definitions. extraDefs is inserted
// verbatim inside <defs>.
func (d *Document) Header(title, desc string, ts time.Time, extraDefs string) {
	w, h := num(d.canvas.Width), num(d.canvas.Height)
	d.buf.WriteString(`<?xml version="1.0" standalone="no"?>` + "\n")
	d.buf.WriteString(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n")
	fmt.Fprintf(&d.buf, `<svg width="%smm" height="%smm" viewBox="0 0 %s %s"`+"\n", w, h, w, h)
	d.buf.WriteString(`     xmlns="http://www.w3.org/2000/svg" version="1.1"` + "\n")
	d.buf.WriteString(`     xmlns:xlink="http://www.w3.org/1999/xlink" xml:space="preserve">` + "\n")
	fmt.Fprintf(&d.buf, " <title>%s</title>\n", escape(title))
	fmt.Fprintf(&d.buf, " <desc>%s</desc>\n", escape(desc))
	fmt.Fprintf(&d.buf, " <!-- %s -->\n", ts.Format(TimestampFormat))
	d.buf.WriteString(" <defs>\n")
	fmt.Fprintf(&d.buf, ` <style type="text/css"><![CDATA[%s]]></style>`+"\n", styleSheet)
	d.buf.WriteString(`  <marker id="mid" orient="auto" markerWidth="6" markerHeight="12" refX="0.3" refY="3">` + "\n")
	d.buf.WriteString(`    <path d="M0,0 V6 L3,3 Z"/>` + "\n")
	d.buf.WriteString("  </marker>\n")
	if extraDefs != "" {
		d.buf.WriteString(extraDefs)
		d.buf.WriteString("\n")
	}
	d.buf.WriteString(" </defs>\n")
}

// Comment writes an XML comment. Double hyphens are softened so the
// comment stays well formed.
func (d *Document) Comment(text string) {
	fmt.Fprintf(&d.buf, "\n<!-- %s -->\n", strings.ReplaceAll(text, "--", "- -"))
}

// Rect writes a rectangle.
func (d *Document) Rect(x, y, w, h float64, s Style) {
	fmt.Fprintf(&d.buf, ` <rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		mm(x), mm(y), mm(w), mm(h), d.style(s))
}

// Text writes a text element anchored at (x, y), rotated by angle degrees
// around that point when angle is non-zero.
func (d *Document) Text(x, y float64, text string, s Style, angle float64) {
	transform := ""
	if angle != 0 {
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(angle), mm(x), mm(y))
	}
	fmt.Fprintf(&d.buf, ` <text x="%s" y="%s"%s%s>%s</text>`+"\n",
		mm(x), mm(y), d.style(s), transform, escape(text))
}

// Footer closes the document, preceded by an optional comment.
func (d *Document) Footer(comment string) {
	if comment != "" {
		d.Comment(comment)
	}
	d.buf.WriteString("</svg>\n")
}

// Bytes returns the document so far.
func (d *Document) Bytes() []byte { return d.buf.Bytes() }

func (d *Document) style(s Style) string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range s {
		v := p.Value
		if p.Name == "fill" || p.Name == "stroke" {
			v = d.palette.Resolve(v)
		}
		fmt.Fprintf(&b, "%s: %s; ", p.Name, v)
	}
	return ` style="` + escape(strings.TrimSpace(b.String())) + `"`
}

// mm formats a coordinate with two decimals.
func mm(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// num formats a value with the fewest digits that represent it.
func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Num formats a style value such as a font size.
func Num(v float64) string { return num(v) }

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
