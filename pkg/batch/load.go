package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/table"
)

// MacroSheet names the job sheet of a Voronoi workbook.
const MacroSheet = "Voronoi"

// maxMacroRules is the number of rule column triples of a macro sheet.
const maxMacroRules = 6

// Legacy tetris jobs draw 68 mm bands 5 mm apart on portrait A4.
const (
	legacyCanvas     = "A4"
	legacyBandHeight = 68.0
	legacyGap        = 5.0
	legacyLeft       = 5.0
	legacyRight      = 205.0
)

type jobFile struct {
	Jobs []Job `toml:"job"`
}

// Load reads the jobs of path, dispatching on its extension.
func Load(path string) ([]Job, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(path)
	case ".xlsx", ".xlsm":
		wb, err := table.OpenWorkbook(path)
		if err != nil {
			return nil, err
		}
		defer wb.Close()
		return FromMacroSheet(wb)
	case ".csv":
		return LoadLegacyCSV(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidJob, "unsupported job file %s (want .toml, .xlsx or .csv)", path)
	}
}

// LoadTOML reads a job file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func LoadTOML(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f jobFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidJob, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidJob, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)
	for i := range f.Jobs {
		f.Jobs[i].Index = i
		f.Jobs[i].Dir = dir
	}
	return f.Jobs, nil
}

// FromMacroSheet reads the Voronoi sheet of wb. Rows whose active cell is
// "#" are disabled; rule triples without a background color are dropped.
func FromMacroSheet(wb *table.Workbook) ([]Job, error) {
	t, err := wb.Table(MacroSheet)
	if err != nil {
		return nil, err
	}
	required := []string{"active", "input_sheet", "output_svgfile", "levels", "area", "quality", "color_sheet"}
	if missing := t.Missing(required...); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMissingColumn, "sheet %q lacks columns %s", MacroSheet, strings.Join(missing, ", "))
	}

	input := filepath.Base(wb.Path())
	dir := filepath.Dir(wb.Path())
	jobs := make([]Job, 0, t.Len())
	for r := range t.Rows {
		sheet := t.Value(r, "input_sheet")
		j := Job{
			Name:        sheet,
			Disabled:    strings.TrimSpace(t.Value(r, "active")) == "#",
			Input:       input,
			Sheet:       sheet,
			Output:      t.Value(r, "output_svgfile") + "-" + pipeline.DefaultCanvas,
			Palette:     t.Value(r, "color_sheet"),
			Levels:      splitList(t.Value(r, "levels")),
			Area:        t.Value(r, "area"),
			Quality:     t.Value(r, "quality"),
			Canvas:      pipeline.DefaultCanvas,
			Orientation: string(pipeline.DefaultOrientation),
			Margins:     []float64{10, 10, 10, 10},
			Gap:         pipeline.DefaultGap,
			Title:       "Voronoi Diagram for " + sheet,
			Index:       r,
			Dir:         dir,
		}
		for i := 1; i <= maxMacroRules; i++ {
			n := strconv.Itoa(i)
			j.Rules = append(j.Rules, RuleSpec{
				When:       t.Value(r, "rule"+n),
				Background: t.Value(r, "bg_color"+n),
				Foreground: t.Value(r, "fg_color"+n),
			})
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// LoadLegacyCSV reads a semicolon separated tetris job list with columns
// csvfile, hier, numflds, area, quality, borders and colors. Rows whose
// csvfile starts with "#" are disabled. The first numflds field weighs the
// cells; borders holds "condition,bg[,fg]" rules joined by "|".
func LoadLegacyCSV(path string) ([]Job, error) {
	t, err := table.ImportCSV(path, table.WithDelimiter(';'))
	if err != nil {
		return nil, err
	}
	required := []string{"csvfile", "hier", "numflds", "quality", "borders", "colors"}
	if missing := t.Missing(required...); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMissingColumn, "%s lacks columns %s", path, strings.Join(missing, ", "))
	}

	dir := filepath.Dir(path)
	jobs := make([]Job, 0, t.Len())
	for r := range t.Rows {
		input := strings.TrimSpace(t.Value(r, "csvfile"))
		levels := splitList(strip(t.Value(r, "hier"), "[]'"))
		numflds := splitList(strip(t.Value(r, "numflds"), "[]'"))
		j := Job{
			Name:        input,
			Disabled:    strings.HasPrefix(input, "#"),
			Input:       input,
			Output:      strings.TrimSuffix(input, filepath.Ext(input)) + "_" + strconv.Itoa(r),
			Palette:     t.Value(r, "colors"),
			Levels:      levels,
			Quality:     t.Value(r, "quality"),
			Canvas:      legacyCanvas,
			Orientation: "portrait",
			Gap:         legacyGap,
			BandHeight:  legacyBandHeight,
			Index:       r,
			Dir:         dir,
		}
		if len(numflds) > 0 {
			j.Area = numflds[0]
		}
		n := float64(max(len(levels), 1))
		j.Box = []float64{legacyLeft, legacyGap, legacyRight, legacyGap + n*legacyBandHeight + (n-1)*legacyGap}

		for _, spec := range strings.Split(strip(t.Value(r, "borders"), "[]'"), "|") {
			parts := strings.Split(spec, ",")
			if len(parts) < 2 {
				continue
			}
			rs := RuleSpec{When: parts[0], Background: parts[1]}
			if len(parts) > 2 {
				rs.Foreground = parts[len(parts)-1]
			}
			j.Rules = append(j.Rules, rs)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// splitList splits a comma separated list, dropping blanks and spaces.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func strip(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
