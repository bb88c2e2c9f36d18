package sink

import (
	"context"

	"github.com/treesquares/treesquares/pkg/render"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
)

// RenderPDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, l layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, opts...))
}
