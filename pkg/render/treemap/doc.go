// Package treemap renders hierarchical tables as nested rectangles.
//
// # Overview
//
// A treemap shows every row of a table as a rectangle whose area is
// proportional to the row's weight, nested by a list of grouping fields.
// treesquares draws one band per grouping depth, so the same data appears
// first split by the outermost field only, then by the first two fields,
// and so on down to the full hierarchy.
//
// The rendering pipeline has three stages:
//
//  1. Layout ([layout]): group the records and cut the drawing box into cells.
//  2. Styles ([styles]): color each cell from its mean quality, size and
//     rotate its label.
//  3. Sink ([sink]): write the painted cells as SVG, JSON, PDF or PNG.
//
// # Rendering Pipeline
//
//	l, err := layout.Build(tbl, layout.Spec{
//	    Hierarchy: []string{"lan", "kommun"},
//	    Area:      "invanare",
//	    Quality:   "andel",
//	    Box:       layout.Rect{X1: 332, Y1: 241.9},
//	    Gap:       3,
//	})
//	rules, _ := styles.ParseRuleSpecs([]string{">0.6,darkgreen,white", ",khaki"})
//	out := sink.RenderSVG(l, sink.WithRules(rules))
//
// [layout]: github.com/treesquares/treesquares/pkg/render/treemap/layout
// [styles]: github.com/treesquares/treesquares/pkg/render/treemap/styles
// [sink]: github.com/treesquares/treesquares/pkg/render/treemap/sink
package treemap
