package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/palette"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/render/treemap/layout"
	"github.com/treesquares/treesquares/pkg/table"
)

// Status is the outcome of one job.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusDisabled Status = "disabled"
)

// JobResult records what happened to one job.
type JobResult struct {
	Job         Job
	Status      Status
	Outputs     []string
	Diagnostics []layout.Diagnostic
	Err         error
	Duration    time.Duration
}

// Summary collects the results of a run.
type Summary struct {
	RunID   string
	Results []JobResult
}

// Count returns the number of jobs with status s.
func (s Summary) Count(st Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}

// Err reports failed jobs as one error, or nil.
func (s Summary) Err() error {
	var failed []string
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, fmt.Sprintf("job %d: %v", r.Job.Index, r.Err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidJob, "%d of %d jobs failed: %s", len(failed), len(s.Results), strings.Join(failed, "; "))
}

// Options tunes a run.
type Options struct {
	// Formats replaces the formats of every job when set.
	Formats []string
	// Refresh re-renders cached documents.
	Refresh bool
	// Timestamp stamps every document; zero uses the current time.
	Timestamp time.Time
	// Progress, when set, is called after each job.
	Progress func(done, total int, r JobResult)
}

// Runner renders jobs through a pipeline runner.
type Runner struct {
	Pipeline *pipeline.Runner
	Logger   *log.Logger
}

// NewRunner creates a batch runner. A nil pipeline runner renders without
// caching.
func NewRunner(p *pipeline.Runner, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if p == nil {
		p = pipeline.NewRunner(nil, nil, logger)
	}
	return &Runner{Pipeline: p, Logger: logger}
}

// Run renders jobs in order. Job failures are recorded in the summary;
// the returned error is non-nil only when ctx is canceled.
func (r *Runner) Run(ctx context.Context, jobs []Job, opts Options) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	logger := r.Logger.With("run", sum.RunID[:8])
	src := newSources()
	defer src.Close()

	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		start := time.Now()
		res := JobResult{Job: j, Status: StatusDisabled}
		if !j.Disabled {
			logger.Info(j.Label())
			res = r.runJob(ctx, src, j, opts, logger)
		} else {
			logger.Debug("disabled", "job", j.Index, "input", j.Input)
		}
		res.Duration = time.Since(start)

		switch res.Status {
		case StatusSkipped:
			logger.Warn("skipping job", "job", j.Index, "reason", errors.UserMessage(res.Err))
		case StatusFailed:
			logger.Error("job failed", "job", j.Index, "err", res.Err)
		case StatusRendered:
			for _, out := range res.Outputs {
				logger.Info("wrote", "file", out)
			}
		}
		sum.Results = append(sum.Results, res)
		if opts.Progress != nil {
			opts.Progress(i+1, len(jobs), res)
		}
	}
	return sum, nil
}

func (r *Runner) runJob(ctx context.Context, src *sources, j Job, opts Options, logger *log.Logger) JobResult {
	res := JobResult{Job: j}
	fail := func(err error) JobResult {
		res.Err = err
		res.Status = StatusFailed
		if errors.IsSkippable(err) {
			res.Status = StatusSkipped
		}
		return res
	}

	popts, err := j.Options()
	if err != nil {
		return fail(err)
	}
	if len(opts.Formats) > 0 {
		popts.Formats = opts.Formats
		if err := pipeline.ValidateFormats(popts.Formats); err != nil {
			return fail(err)
		}
	}
	popts.Refresh = opts.Refresh
	popts.Timestamp = opts.Timestamp

	pal, err := src.palette(j)
	if err != nil {
		return fail(err)
	}
	popts.Palette = pal

	t, err := src.table(j.Path(j.Input), j.Sheet)
	if err != nil {
		return fail(err)
	}

	pr := *r.Pipeline
	pr.Logger = logger
	result, err := pr.Execute(ctx, t, popts)
	if err != nil {
		return fail(err)
	}
	res.Diagnostics = result.Diagnostics

	for _, format := range popts.Formats {
		path := j.OutputPath(format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return fail(err)
		}
		res.Outputs = append(res.Outputs, path)
	}
	res.Status = StatusRendered
	return res
}

func writeFile(path string, data []byte) error {
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

// sources keeps workbooks open for the duration of a run.
type sources struct {
	books map[string]*table.Workbook
}

func newSources() *sources {
	return &sources{books: map[string]*table.Workbook{}}
}

func (s *sources) workbook(path string) (*table.Workbook, error) {
	if wb, ok := s.books[path]; ok {
		return wb, nil
	}
	wb, err := table.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	s.books[path] = wb
	return wb, nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func (s *sources) table(path, sheet string) (*table.Table, error) {
	if isCSV(path) {
		return table.ImportCSV(path)
	}
	wb, err := s.workbook(path)
	if err != nil {
		return nil, err
	}
	return wb.Table(sheet)
}

// palette loads the color sheet of j: a CSV file, or a sheet of the
// input workbook.
func (s *sources) palette(j Job) (palette.Palette, error) {
	name := strings.TrimSpace(j.Palette)
	if name == "" {
		return nil, nil
	}
	var t *table.Table
	var err error
	switch {
	case isCSV(name):
		t, err = table.ImportCSV(j.Path(name), table.SkipComments())
	case isCSV(j.Input):
		return nil, errors.New(errors.ErrCodeSheetNotFound, "color sheet %q needs a workbook input, not %s", name, j.Input)
	default:
		var wb *table.Workbook
		if wb, err = s.workbook(j.Path(j.Input)); err == nil {
			t, err = wb.Table(name)
		}
	}
	if err != nil {
		return nil, err
	}
	return palette.FromTable(t)
}

func (s *sources) Close() {
	for _, wb := range s.books {
		wb.Close()
	}
}
