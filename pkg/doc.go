// Package pkg provides the libraries behind treesquares, a renderer of
// hierarchical tables as squarified treemaps.
//
// # Overview
//
// A table row belongs to a path of hierarchy values (landsdel › län ›
// kommun) and carries a weight and a quality. treesquares stacks one band
// per hierarchy level on a printable page and partitions each band into
// rectangles whose areas follow the weights, colored by rules on the
// quality. The pkg directory is organized into four areas:
//
//  1. Data - [table] reading and writing CSV and XLSX, [palette] color sheets
//  2. Rendering - [render/treemap] layout and paint, [render/svg] pages, [render/nodelink] link graphs
//  3. Orchestration - [pipeline] (table → layout → render), [batch] job files, [server] HTTP
//  4. Sources - [wikipedia] statistics and links, [wikidata] person sheets
//
// # Architecture
//
// The typical data flow:
//
//	Workbook / CSV
//	      ↓
//	 [table] package (string cells, natural ordering)
//	      ↓
//	 [render/treemap/layout] (bands, recursive partition)
//	      ↓
//	 [render/treemap/styles] (rules → colors, labels, font sizes)
//	      ↓
//	 [render/treemap/sink] → SVG/PDF/PNG/JSON
//
// # Quick Start
//
//	t, _ := table.Open("kommuner.xlsx", "kommun")
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, t, pipeline.Options{
//	    Hierarchy: []string{"landsdel", "lan", "kommun"},
//	    Area:      "yta",
//	    Quality:   "skog",
//	    Rules:     rules,
//	})
//	os.WriteFile("kommuner.svg", res.Artifacts["svg"], 0o644)
//
// # Infrastructure
//
// [cache] - Response and document caching with file, memory (LRU) and
// Redis backends behind one interface.
//
// [config] - Settings layered from defaults, a TOML file, .env and
// TREESQUARES_* variables.
//
// [integrations] and [httputil] - Cached JSON clients with retry and
// backoff, used by [wikipedia].
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Error codes shared by the CLI, the batch runner and the server.
//
// # Testing
//
//	go test ./...
//
// [table]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/table
// [palette]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/palette
// [render/treemap]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/treemap
// [render/treemap/layout]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/treemap/layout
// [render/treemap/styles]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/treemap/styles
// [render/treemap/sink]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/treemap/sink
// [render/svg]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/pipeline
// [batch]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/batch
// [server]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/server
// [wikipedia]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/wikipedia
// [wikidata]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/wikidata
// [cache]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/cache
// [config]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/config
// [integrations]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/integrations
// [httputil]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/observability
// [errors]: https://pkg.go.dev/github.com/treesquares/treesquares/pkg/errors
package pkg
