package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/render/svg"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
)

// RuleSpec is a color rule as written in a job: a condition such as
// ">0.5" (empty for the catch-all) with its colors.
type RuleSpec struct {
	When       string `toml:"when"`
	Background string `toml:"bg"`
	Foreground string `toml:"fg"`
}

// Job describes one diagram.
type Job struct {
	Name     string `toml:"name"`
	Disabled bool   `toml:"disabled"`

	// Input is a workbook or CSV file; Sheet selects the workbook sheet.
	Input string `toml:"input"`
	Sheet string `toml:"sheet"`
	// Output is the path of the rendered files without extension.
	Output string `toml:"output"`
	// Palette names a sheet of the input workbook or a CSV file.
	Palette string `toml:"palette"`

	Levels  []string   `toml:"levels"`
	Area    string     `toml:"area"`
	Quality string     `toml:"quality"`
	Rules   []RuleSpec `toml:"rule"`

	Canvas      string    `toml:"canvas"`
	Orientation string    `toml:"orientation"`
	Formats     []string  `toml:"formats"`
	Box         []float64 `toml:"box"`     // x0, y0, x1, y1
	Margins     []float64 `toml:"margins"` // top, right, bottom, left
	Gap         float64   `toml:"gap"`
	BandHeight  float64   `toml:"band_height"`
	Title       string    `toml:"title"`

	// Index is the position of the job in its source, from 0.
	Index int `toml:"-"`
	// Dir resolves relative paths.
	Dir string `toml:"-"`
}

// Label describes the job in one line.
func (j Job) Label() string {
	name := j.Name
	if name == "" {
		name = j.Sheet
	}
	if name == "" {
		name = filepath.Base(j.Input)
	}
	return fmt.Sprintf("%d. %s --> %s: %s Area: %s Quality: %s",
		j.Index, name, j.Output, strings.Join(j.Levels, "/"), j.Area, j.Quality)
}

// Path resolves p against the job directory.
func (j Job) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || j.Dir == "" {
		return p
	}
	return filepath.Join(j.Dir, p)
}

// OutputPath returns the file a format is written to.
func (j Job) OutputPath(format string) string {
	return j.Path(j.Output) + "." + format
}

// ParseRules parses the job's color rules, dropping rules without a
// background color.
func (j Job) ParseRules() (styles.Rules, error) {
	var rules styles.Rules
	for _, spec := range j.Rules {
		if strings.TrimSpace(spec.Background) == "" {
			continue
		}
		r, err := styles.ParseRule(spec.When, spec.Background, spec.Foreground)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Options converts the job into pipeline options. The palette is left for
// the caller to load.
func (j Job) Options() (pipeline.Options, error) {
	if j.Input == "" {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidJob, "job %d: input is required", j.Index)
	}
	if j.Output == "" {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidJob, "job %d: output is required", j.Index)
	}
	rules, err := j.ParseRules()
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Source:      j.Sheet,
		Hierarchy:   j.Levels,
		Area:        j.Area,
		Quality:     j.Quality,
		Rules:       rules,
		Canvas:      j.Canvas,
		Orientation: svg.Orientation(j.Orientation),
		Formats:     j.Formats,
		Gap:         j.Gap,
		BandHeight:  j.BandHeight,
		Title:       j.Title,
	}
	if opts.Source == "" {
		opts.Source = filepath.Base(j.Input)
	}

	switch len(j.Box) {
	case 0:
	case 4:
		opts.Box = &layout.Rect{X0: j.Box[0], Y0: j.Box[1], X1: j.Box[2], Y1: j.Box[3]}
	default:
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidJob, "job %d: box wants x0, y0, x1, y1", j.Index)
	}
	switch len(j.Margins) {
	case 0:
	case 4:
		opts.Margins = &svg.Margins{Top: j.Margins[0], Right: j.Margins[1], Bottom: j.Margins[2], Left: j.Margins[3]}
	default:
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidJob, "job %d: margins want top, right, bottom, left", j.Index)
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, fmt.Errorf("job %d: %w", j.Index, err)
	}
	return opts, nil
}
