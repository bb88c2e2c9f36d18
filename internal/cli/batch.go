package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/batch"
	"github.com/treesquares/treesquares/pkg/pipeline"
)

type batchFlags struct {
	formats string
	selects bool
	list    bool
	noCache bool
	refresh bool
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch [jobs.toml|workbook.xlsm|tetris.csv]",
		Short: "Render every job of a job file",
		Long: `Render every job of a job file.

Jobs come from a TOML file ([[job]] tables), from the "Voronoi" sheet of a
macro workbook, or from a legacy semicolon-separated job list. Disabled
jobs are listed but not rendered; jobs whose input sheet or columns are
missing are skipped and the run continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "override the output format(s) of every job (comma-separated)")
	cmd.Flags().BoolVar(&flags.selects, "select", false, "choose the jobs to render interactively")
	cmd.Flags().BoolVar(&flags.list, "list", false, "list the jobs without rendering")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render cached documents")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path string, flags batchFlags) error {
	logger := loggerFromContext(ctx)

	var formats []string
	if flags.formats != "" {
		formats = parseList(flags.formats)
		if err := pipeline.ValidateFormats(formats); err != nil {
			return err
		}
	}

	jobs, err := batch.Load(path)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	logger.Debugf("Loaded %d jobs from %s", len(jobs), path)

	if flags.list {
		printJobs(jobs)
		return nil
	}
	if flags.selects {
		if jobs, err = pickJobs(jobs); err != nil {
			return err
		}
		if len(jobs) == 0 {
			printInfo("No jobs selected")
			return nil
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d jobs...", len(jobs)))
	spinner.Start()

	br := batch.NewRunner(runner, logger)
	sum, err := br.Run(ctx, jobs, batch.Options{
		Formats: formats,
		Refresh: flags.refresh,
		Progress: func(done, total int, r batch.JobResult) {
			spinner.Update(fmt.Sprintf("Rendering jobs... %d/%d", done, total))
		},
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Finished run %s", sum.RunID[:8]))

	printSummary(sum)
	return sum.Err()
}

func printJobs(jobs []batch.Job) {
	for _, j := range jobs {
		line := fmt.Sprintf("%3d  %s  %s", j.Index, j.Label(), StyleDim.Render(strings.Join(j.Levels, " › ")))
		if j.Disabled {
			printSkipped("%s", line)
			continue
		}
		printInfo("%s", line)
	}
}

// printSummary prints one line per job and the totals.
func printSummary(sum batch.Summary) {
	for _, r := range sum.Results {
		switch r.Status {
		case batch.StatusRendered:
			printSuccess("%s", r.Job.Label())
			for _, out := range r.Outputs {
				printFile(out)
			}
			if n := len(r.Diagnostics); n > 0 {
				printDetail("%d rows dropped", n)
			}
		case batch.StatusSkipped:
			printWarning("%s: %s", r.Job.Label(), r.Err)
		case batch.StatusFailed:
			printError("%s: %s", r.Job.Label(), r.Err)
		case batch.StatusDisabled:
			printSkipped("%s", r.Job.Label())
		}
	}
	printNewline()
	printKeyValue("rendered", fmt.Sprint(sum.Count(batch.StatusRendered)))
	printKeyValue("skipped", fmt.Sprint(sum.Count(batch.StatusSkipped)))
	printKeyValue("failed", fmt.Sprint(sum.Count(batch.StatusFailed)))
	printKeyValue("disabled", fmt.Sprint(sum.Count(batch.StatusDisabled)))
}
