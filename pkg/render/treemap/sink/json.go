package sink

import (
	"encoding/json"
	"math"

	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
)

type jsonLayout struct {
	Hierarchy []string     `json:"hierarchy"`
	Area      string       `json:"area"`
	Quality   string       `json:"quality,omitempty"`
	Box       layout.Rect  `json:"box"`
	Rows      int          `json:"rows"`
	Rules     styles.Rules `json:"rules,omitempty"`
	Bands     []jsonBand   `json:"bands"`
}

type jsonBand struct {
	Level       int              `json:"level"`
	Fields      []string         `json:"fields"`
	Rect        layout.Rect      `json:"rect"`
	Cells       []jsonCell       `json:"cells"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonCell struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Label      string   `json:"label"`
	Background string   `json:"background"`
	Foreground string   `json:"foreground"`
	FontSize   float64  `json:"font_size"`
	Rotate     float64  `json:"rotate,omitempty"`
	Quality    *float64 `json:"quality,omitempty"`
	Weight     float64  `json:"weight"`
	Rows       int      `json:"rows"`
	Note       string   `json:"note,omitempty"`
}

type jsonDiagnostic struct {
	Rect    layout.Rect `json:"rect"`
	Rows    int         `json:"rows"`
	Message string      `json:"message"`
}

// RenderJSON encodes the painted layout. Quality is omitted for cells
// without a known quality value.
func RenderJSON(l layout.Layout, rules styles.Rules) ([]byte, error) {
	out := jsonLayout{
		Hierarchy: l.Spec.Hierarchy,
		Area:      l.Spec.Area,
		Quality:   l.Spec.Quality,
		Box:       l.Spec.Box,
		Rows:      l.Rows,
		Rules:     rules,
		Bands:     make([]jsonBand, len(l.Bands)),
	}
	for i, b := range l.Bands {
		jb := jsonBand{Level: b.Level, Fields: b.Fields, Rect: b.Rect, Cells: []jsonCell{}}
		for _, op := range styles.PaintBand(b, rules) {
			jb.Cells = append(jb.Cells, toJSONCell(op))
		}
		for _, d := range b.Diagnostics {
			jb.Diagnostics = append(jb.Diagnostics, jsonDiagnostic{Rect: d.Rect, Rows: d.Rows, Message: d.Message})
		}
		out.Bands[i] = jb
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONCell(op styles.PaintOp) jsonCell {
	c := jsonCell{
		X:          op.Rect.X0,
		Y:          op.Rect.Y0,
		Width:      op.Rect.Width(),
		Height:     op.Rect.Height(),
		Label:      op.Label,
		Background: op.Background,
		Foreground: op.Foreground,
		FontSize:   op.FontSize,
		Rotate:     op.Rotate,
		Weight:     op.Weight,
		Rows:       op.Rows,
		Note:       op.Note,
	}
	if !math.IsNaN(op.Quality) {
		q := op.Quality
		c.Quality = &q
	}
	return c
}
