package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/palette"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
	"github.com/treesquares/treesquares/pkg/table"
)

// renderFlags holds the raw flags of the render command.
type renderFlags struct {
	sheet       string
	levels      string
	rules       []string
	palette     string
	orientation string
	margins     string
	box         string
	formats     string
	output      string
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [table.csv|workbook.xlsx]",
		Short: "Draw a table as a squarified treemap",
		Long: `Draw a table as a squarified treemap.

Every hierarchy level gets its own band. Rectangle areas follow the area
column; the quality column picks the colors through the rules, which are
tried in order:

  treesquares render kommuner.csv --levels landsdel,lan,kommun \
      --area yta --quality skog --rule '>0.6,forestgreen,white' --rule ',grey'

Rendered documents are cached by table content and options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.sheet, "sheet", "", "workbook sheet holding the table")
	f.StringVar(&flags.levels, "levels", "", "hierarchy columns, outermost first (comma-separated)")
	f.StringVar(&opts.Area, "area", "", "column holding the rectangle weights")
	f.StringVar(&opts.Quality, "quality", "", "column the color rules test")
	f.StringArrayVar(&flags.rules, "rule", nil, "color rule condition,background[,foreground] (repeatable)")
	f.StringVar(&flags.palette, "palette", "", "color sheet: a .csv file or a sheet of the input workbook")
	f.StringVar(&opts.Canvas, "canvas", pipeline.DefaultCanvas, "page format: "+strings.Join(svg.FormatNames(), ", "))
	f.StringVar(&flags.orientation, "orientation", string(pipeline.DefaultOrientation), "page orientation: landscape, portrait")
	f.StringVar(&flags.margins, "margins", "", "inner frame margins top,right,bottom,left in mm")
	f.StringVar(&flags.box, "box", "", "drawing box x0,y0,x1,y1 in mm (default: whole page)")
	f.Float64Var(&opts.Gap, "gap", pipeline.DefaultGap, "gap between bands in mm")
	f.Float64Var(&opts.BandHeight, "band-height", 0, "fixed band height in mm (default: share the box)")
	f.StringVar(&opts.Title, "title", "", "document title")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	f.Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "png scale factor")
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "re-render cached documents")

	_ = cmd.MarkFlagRequired("levels")
	_ = cmd.MarkFlagRequired("area")
	return cmd
}

// apply copies the parsed flags into opts.
func (f renderFlags) apply(opts *pipeline.Options) error {
	opts.Hierarchy = parseList(f.levels)
	opts.Formats = parseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	rules, err := styles.ParseRuleSpecs(f.rules)
	if err != nil {
		return err
	}
	opts.Rules = rules
	opts.Orientation = svg.Orientation(f.orientation)

	if f.margins != "" {
		v, err := parseFloats("margins", f.margins, 4)
		if err != nil {
			return err
		}
		opts.Margins = &svg.Margins{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
	}
	if f.box != "" {
		v, err := parseFloats("box", f.box, 4)
		if err != nil {
			return err
		}
		opts.Box = &layout.Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}
	}
	return nil
}

// parseFloats parses exactly n comma-separated numbers.
func parseFloats(name, s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--%s wants %d comma-separated numbers, got %q", name, n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--%s: %q is not a number", name, p)
		}
		out[i] = v
	}
	return out, nil
}

// runRender loads the table and palette, runs the pipeline and writes the
// requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)

	t, err := table.Open(input, flags.sheet)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	logger.Debugf("Loaded %s: %d rows, %d columns", input, t.Len(), len(t.Columns))

	if flags.palette != "" {
		p, err := loadPalette(input, flags.palette)
		if err != nil {
			return fmt.Errorf("load palette %s: %w", flags.palette, err)
		}
		opts.Palette = p
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Source = t.Name
	opts.Logger = logger

	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		return err
	}

	base := outputBase(flags.output, input, flags.sheet)
	var written []string
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && flags.output != "" {
			path = flags.output
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", t.Name)
	for _, path := range written {
		printFile(path)
	}
	printRenderStats(result.Stats.Rows, result.Stats.Cells, len(result.Diagnostics), result.CacheInfo.RenderHit)
	return nil
}

// loadPalette reads a color sheet from a CSV file or from a sheet of the
// input workbook.
func loadPalette(input, name string) (palette.Palette, error) {
	var t *table.Table
	var err error
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		t, err = table.ImportCSV(name, table.SkipComments())
	} else {
		t, err = table.ReadXLSX(input, name)
	}
	if err != nil {
		return nil, err
	}
	return palette.FromTable(t)
}

// outputBase derives the base output path: the output flag without a
// format extension, else the input path without extension plus the sheet.
func outputBase(output, input, sheet string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if sheet != "" {
		base += "-" + sheet
	}
	return base
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
