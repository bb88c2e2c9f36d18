// Package pipeline provides the treemap rendering pipeline for treesquares.
//
// This package implements the complete table → layout → render pipeline
// used by the CLI, the batch runner and the HTTP server. By centralizing
// this logic every entry point validates, caches and reports diagnostics
// the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Partition the table rows into one band per hierarchy level
//  2. Render: Paint the bands in various formats (SVG, JSON, PDF, PNG)
//
// Rendered documents are cached by the content hash of the table together
// with every render option.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Hierarchy: []string{"landsdel", "lan", "kommun"},
//	    Area:      "yta",
//	    Quality:   "skog",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, t, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := pipeline.Layout(t, opts)
//	artifacts, err := pipeline.Render(ctx, l, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/palette"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/sink"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Batch, and Server
// =============================================================================

const (
	// DefaultCanvas is the page format of the Voronoi diagrams.
	DefaultCanvas = sink.DefaultFormat

	// DefaultOrientation is the page orientation.
	DefaultOrientation = svg.Landscape

	// DefaultGap separates consecutive bands, in millimetres.
	DefaultGap = 3.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 4.0

	// FrameName is the name of the margin frame outlined on the page.
	FrameName = "inner"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one treemap diagram.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Source names the rendered table in logs and hooks (sheet or file).
	Source string `json:"source,omitempty"`

	// Layout options
	Hierarchy  []string     `json:"hierarchy"`
	Area       string       `json:"area"`
	Quality    string       `json:"quality,omitempty"`
	Box        *layout.Rect `json:"box,omitempty"` // Drawing box; nil uses the whole page
	Gap        float64      `json:"gap,omitempty"` // Zero selects DefaultGap
	BandHeight float64      `json:"band_height,omitempty"`

	// Render options
	Rules       styles.Rules    `json:"rules,omitempty"`
	Canvas      string          `json:"canvas,omitempty"`
	Orientation svg.Orientation `json:"orientation,omitempty"`
	Margins     *svg.Margins    `json:"margins,omitempty"` // Outlined as the inner frame
	Title       string          `json:"title,omitempty"`
	Desc        string          `json:"desc,omitempty"`
	Formats     []string        `json:"formats,omitempty"`
	Scale       float64         `json:"scale,omitempty"`
	Refresh     bool            `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Palette   palette.Palette `json:"-"`
	Timestamp time.Time       `json:"-"` // Zero stamps documents with the current time
	Logger    *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout holds the partitioned bands.
	Layout layout.Layout

	// TableHash is the content hash of the input table.
	TableHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics lists the rows dropped while partitioning.
	Diagnostics []layout.Diagnostic

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Cells      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Hierarchy) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "levels are required")
	}
	for _, col := range o.Hierarchy {
		if err := errors.ValidateColumnName(col); err != nil {
			return err
		}
	}
	if err := errors.ValidateColumnName(o.Area); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "area")
	}
	if o.Quality != "" {
		if err := errors.ValidateColumnName(o.Quality); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "quality")
		}
	}
	if err := o.Rules.Validate(); err != nil {
		return err
	}

	if o.Canvas == "" {
		o.Canvas = DefaultCanvas
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := o.NewCanvas(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// NewCanvas returns the page the diagram is drawn on, with the inner frame
// defined when margins are set.
func (o *Options) NewCanvas() (*svg.Canvas, error) {
	format := o.Canvas
	if format == "" {
		format = DefaultCanvas
	}
	c, err := svg.NewCanvas(format)
	if err != nil {
		return nil, err
	}
	orientation := o.Orientation
	if orientation == "" {
		orientation = DefaultOrientation
	}
	if err := c.SetOrientation(orientation); err != nil {
		return nil, err
	}
	if o.Margins != nil {
		c.DefineMargins(FrameName, *o.Margins)
	}
	return c, nil
}

// DrawingBox returns the box the bands are stacked in on canvas c.
func (o *Options) DrawingBox(c *svg.Canvas) layout.Rect {
	if o.Box != nil {
		return *o.Box
	}
	return layout.Rect{X1: c.Width, Y1: c.Height}
}

// LayoutSpec returns the layout spec for canvas c.
func (o *Options) LayoutSpec(c *svg.Canvas) layout.Spec {
	return layout.Spec{
		Hierarchy:  o.Hierarchy,
		Area:       o.Area,
		Quality:    o.Quality,
		Box:        o.DrawingBox(c),
		Gap:        o.Gap,
		BandHeight: o.BandHeight,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string, box layout.Rect) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Hierarchy:   o.Hierarchy,
		Area:        o.Area,
		Quality:     o.Quality,
		Rules:       o.Rules.String(),
		Canvas:      o.Canvas,
		Orientation: string(o.Orientation),
		Box:         rectKey(box),
		Gap:         o.Gap,
		BandHeight:  o.BandHeight,
		Title:       strings.TrimSpace(o.Title + " " + o.Desc),
		Format:      format,
	}
	if o.Margins != nil {
		opts.Box += fmt.Sprintf(" frame %g,%g,%g,%g", o.Margins.Top, o.Margins.Right, o.Margins.Bottom, o.Margins.Left)
	}
	if format == FormatPNG {
		opts.Format += fmt.Sprintf("@%g", o.Scale)
	}
	if len(o.Palette) > 0 {
		data, _ := json.Marshal(o.Palette)
		opts.Palette = cache.Hash(data)
	}
	return opts
}

// rectKey formats r at full precision.
func rectKey(r layout.Rect) string {
	parts := make([]string, 0, 4)
	for _, v := range []float64{r.X0, r.Y0, r.X1, r.Y1} {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}
