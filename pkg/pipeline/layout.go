package pipeline

import (
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/table"
)

// Layout partitions t into one band per hierarchy level.
//
// Missing columns fail with MISSING_COLUMN before any band is built; rows
// dropped for lack of weight are reported as diagnostics, not errors.
func Layout(t *table.Table, opts Options) (layout.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, err
	}
	c, err := opts.NewCanvas()
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Build(t, opts.LayoutSpec(c))
}
