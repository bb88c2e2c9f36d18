package wikipedia

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

// StatsSheet names the sheet EnrichStats results are written to.
const StatsSheet = "add_wp_to_wd"

// DefaultConcurrency bounds the requests in flight.
const DefaultConcurrency = 8

const titleSuffix = "_title"

// Languages returns the language codes of the article title columns of t,
// in column order. A column named "sv_title" yields "sv"; columns whose
// prefix is not a language code are ignored.
func Languages(t *table.Table) []string {
	var langs []string
	seen := map[string]bool{}
	for _, col := range t.Columns {
		i := strings.Index(col, titleSuffix)
		if i <= 0 {
			continue
		}
		lang := col[:i]
		if seen[lang] || errors.ValidateLanguageCode(lang) != nil {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}

// TitleColumn returns the title column of lang.
func TitleColumn(lang string) string { return lang + titleSuffix }

// Options tunes the spreadsheet operations.
type Options struct {
	// Concurrency bounds requests in flight. Defaults to DefaultConcurrency.
	Concurrency int
	// Languages restricts the languages handled. Defaults to all title columns.
	Languages []string
	// Logger receives per-request diagnostics. Defaults to log.Default().
	Logger *log.Logger
	// Progress, when set, is called after each finished request.
	Progress func(done, total int)
}

func (o *Options) setDefaults(t *table.Table) {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if len(o.Languages) == 0 {
		o.Languages = Languages(t)
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Report summarizes a fan-out.
type Report struct {
	Requests int
	Failures int
}

type task struct {
	row   int
	lang  string
	title string
}

func tasksFor(t *table.Table, langs []string) []task {
	var tasks []task
	for r := range t.Rows {
		for _, lang := range langs {
			title := strings.TrimSpace(t.Value(r, TitleColumn(lang)))
			if title != "" {
				tasks = append(tasks, task{row: r, lang: lang, title: title})
			}
		}
	}
	return tasks
}

// StatsColumns returns the columns EnrichStats adds for lang.
func StatsColumns(lang string) (pageviews, size string) {
	return lang + "_pageviews", lang + "_size"
}

// EnrichStats fetches page views and size for every non-empty title of
// every language and stores them in {lang}_pageviews and {lang}_size,
// which default to 0. t is modified in place. Request failures are logged
// and counted in the report; only cancellation aborts.
func EnrichStats(ctx context.Context, c *Client, t *table.Table, opts Options) (Report, error) {
	opts.setDefaults(t)
	if len(opts.Languages) == 0 {
		return Report{}, errors.New(errors.ErrCodeMissingColumn, "%s: no <lang>_title columns", t.Name)
	}

	for _, lang := range opts.Languages {
		pv, size := StatsColumns(lang)
		t.AddColumn(pv, "0")
		t.AddColumn(size, "0")
	}

	tasks := tasksFor(t, opts.Languages)
	total := 2 * len(tasks)
	rep := Report{Requests: total}

	var mu sync.Mutex
	done := 0
	finish := func(tk task, col string, v int, err error) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if err != nil {
			rep.Failures++
			opts.Logger.Warn("wikipedia request failed", "lang", tk.lang, "title", tk.title, "column", col, "err", err)
		} else {
			t.Set(tk.row, col, strconv.Itoa(v))
			opts.Logger.Debug("wikipedia stat", "lang", tk.lang, "title", tk.title, col, v)
		}
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, tk := range tasks {
		pv, size := StatsColumns(tk.lang)
		g.Go(func() error {
			v, err := c.PageViews(gctx, tk.lang, tk.title)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			finish(tk, pv, v, err)
			return nil
		})
		g.Go(func() error {
			v, err := c.PageSize(gctx, tk.lang, tk.title)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			finish(tk, size, v, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	return rep, nil
}
