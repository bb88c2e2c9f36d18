// Package sink writes painted treemap layouts.
//
// [RenderSVG] produces a millimetre-sized page: one comment block per band
// followed by a filled rectangle and a centred label for every cell.
// Cells whose label is empty keep their rectangle and get an explanatory
// comment instead of text. Rows dropped during partitioning are listed as
// comments after their band.
//
// [RenderJSON] exposes the same paint operations for other tools.
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert.
package sink
