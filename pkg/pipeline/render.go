package pipeline

import (
	"context"
	"fmt"

	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return renderFormats(ctx, l, opts, opts.Formats)
}

func renderFormats(ctx context.Context, l layout.Layout, opts Options, formats []string) (map[string][]byte, error) {
	c, err := opts.NewCanvas()
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(c, opts)
	artifacts := make(map[string][]byte, len(formats))

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, opts.Rules)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(c *svg.Canvas, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithCanvas(c),
		sink.WithRules(opts.Rules),
	}
	if opts.Palette != nil {
		svgOpts = append(svgOpts, sink.WithPalette(opts.Palette))
	}
	if opts.Title != "" || opts.Desc != "" {
		desc := opts.Desc
		if desc == "" {
			desc = "treesquares"
		}
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title, desc))
	}
	if !opts.Timestamp.IsZero() {
		svgOpts = append(svgOpts, sink.WithTimestamp(opts.Timestamp))
	}
	if opts.Margins != nil {
		svgOpts = append(svgOpts, sink.WithFrame(FrameName))
	}
	if opts.Source != "" {
		svgOpts = append(svgOpts, sink.WithComment("Source: "+opts.Source))
	}
	return svgOpts
}
