// Package render provides the output side of treesquares.
//
// # Overview
//
// This package contains the rendering pipeline that turns tables into
// visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Millimetre-based SVG documents on paper formats (in [svg])
//   - Treemap diagrams (in [treemap] and its subpackages)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the treemap sink and
// the node-link renderer use them.
//
//	svg := sink.RenderSVG(l, sink.WithRules(rules))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Treemaps
//
// Key treemap subpackages:
//   - [treemap/layout]: Recursive partitioning and band geometry
//   - [treemap/styles]: Color rules, labels and font sizing
//   - [treemap/sink]: Output formats (SVG, JSON, PDF, PNG)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders article link graphs using Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [svg]: github.com/treesquares/treesquares/pkg/render/svg
// [treemap]: github.com/treesquares/treesquares/pkg/render/treemap
// [treemap/layout]: github.com/treesquares/treesquares/pkg/render/treemap/layout
// [treemap/styles]: github.com/treesquares/treesquares/pkg/render/treemap/styles
// [treemap/sink]: github.com/treesquares/treesquares/pkg/render/treemap/sink
// [nodelink]: github.com/treesquares/treesquares/pkg/render/nodelink
package render
