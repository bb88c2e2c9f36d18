package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/render/nodelink"
	"github.com/treesquares/treesquares/pkg/table"
	"github.com/treesquares/treesquares/pkg/wikidata"
	"github.com/treesquares/treesquares/pkg/wikipedia"
)

// Default input sheets of the stats and links commands.
const (
	defaultStatsSheet  = "orter"
	defaultCorpusSheet = "core_corpus"
)

// wikiFlags are shared by the commands that query Wikipedia.
type wikiFlags struct {
	languages   string
	concurrency int
	output      string
	noCache     bool
	refresh     bool
}

func (f *wikiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.languages, "lang", "", "languages to query (default: every <lang>_title column)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "requests in flight (default: from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output workbook (default: <input>-output.xlsx)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching of API responses")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached API responses")
}

func (f *wikiFlags) outputPath(input string) string {
	if f.output != "" {
		return f.output
	}
	return table.OutputPath(input)
}

// wikiOptions returns the fan-out options, reporting progress to spinner.
func (c *CLI) wikiOptions(ctx context.Context, f wikiFlags, spinner *Spinner, verb string) wikipedia.Options {
	concurrency := f.concurrency
	if concurrency <= 0 {
		concurrency = c.Config.Concurrency
	}
	return wikipedia.Options{
		Concurrency: concurrency,
		Languages:   parseList(f.languages),
		Logger:      loggerFromContext(ctx),
		Progress: func(done, total int) {
			spinner.Update(fmt.Sprintf("%s... %d/%d", verb, done, total))
		},
	}
}

// =============================================================================
// persons
// =============================================================================

func (c *CLI) personsCommand() *cobra.Command {
	var (
		flags   wikiFlags
		noStats bool
	)

	cmd := &cobra.Command{
		Use:   "persons [workbook.xlsx]",
		Short: "Condense a Wikidata person export and add Wikipedia statistics",
		Long: `Condense a Wikidata person export and add Wikipedia statistics.

The workbook must hold the sheets "` + wikidata.PersonsSheet + `" (one row per person and
occupation), "` + wikidata.PrioritySheet + `" (occupations, most important first) and
"` + wikidata.PlacesSheet + `" (place hierarchy keyed by ort). Each person keeps the row of
its most important occupation; birth and death get date, year, century
and place levels. Page views and article sizes are then fetched for every
<lang>_title column.

The result is written to the sheet "` + wikipedia.StatsSheet + `" of <input>-output.xlsx.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPersons(cmd.Context(), args[0], flags, noStats)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noStats, "no-stats", false, "only condense, do not query Wikipedia")
	return cmd
}

func (c *CLI) runPersons(ctx context.Context, input string, flags wikiFlags, noStats bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	wb, err := table.OpenWorkbook(input)
	if err != nil {
		return err
	}
	in, err := wikidata.Load(wb)
	wb.Close()
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	persons, err := wikidata.Condense(in.Persons, in.Priorities, in.Places)
	if err != nil {
		return fmt.Errorf("condense: %w", err)
	}
	prog.done(fmt.Sprintf("Condensed %d rows to %d persons", in.Persons.Len(), persons.Len()))

	switch {
	case noStats:
	case len(wikipedia.Languages(persons)) == 0:
		printWarning("No <lang>_title columns, skipping Wikipedia statistics")
	default:
		if err := c.enrich(ctx, persons, flags); err != nil {
			return err
		}
	}

	persons.Name = wikipedia.StatsSheet
	out := flags.outputPath(input)
	if err := table.WriteXLSX(out, persons); err != nil {
		return err
	}
	printSuccess("Condensed %d persons", persons.Len())
	printFile(out + " / " + persons.Name)
	return nil
}

// =============================================================================
// stats
// =============================================================================

func (c *CLI) statsCommand() *cobra.Command {
	var (
		flags wikiFlags
		sheet string
	)

	cmd := &cobra.Command{
		Use:   "stats [workbook.xlsx|table.csv]",
		Short: "Add Wikipedia page views and article sizes to a sheet",
		Long: `Add Wikipedia page views and article sizes to a sheet.

For every <lang>_title column the columns <lang>_pageviews and <lang>_size
are added. Failed requests are logged and leave 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), args[0], sheet, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&sheet, "sheet", defaultStatsSheet, "input sheet")
	return cmd
}

func (c *CLI) runStats(ctx context.Context, input, sheet string, flags wikiFlags) error {
	t, err := table.Open(input, sheet)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if err := c.enrich(ctx, t, flags); err != nil {
		return err
	}

	t.Name = wikipedia.StatsSheet
	out := flags.outputPath(input)
	if err := table.WriteXLSX(out, t); err != nil {
		return err
	}
	printFile(out + " / " + t.Name)
	return nil
}

// enrich runs EnrichStats on t with a spinner.
func (c *CLI) enrich(ctx context.Context, t *table.Table, flags wikiFlags) error {
	client, backend, err := c.newWikiClient(ctx, flags.noCache, flags.refresh)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Fetching statistics...")
	spinner.Start()
	rep, err := wikipedia.EnrichStats(ctx, client, t, c.wikiOptions(ctx, flags, spinner, "Fetching statistics"))
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("fetch statistics: %w", err)
	}
	prog.done(fmt.Sprintf("Fetched statistics for %d rows", t.Len()))

	printSuccess("Added page views and sizes")
	printFetchStats(rep.Requests, rep.Failures)
	return nil
}

// =============================================================================
// links
// =============================================================================

type linkFlags struct {
	wikiFlags
	sheet      string
	graph      string
	graphLang  string
	graphLimit int
	detailed   bool
}

func (c *CLI) linksCommand() *cobra.Command {
	var flags linkFlags

	cmd := &cobra.Command{
		Use:   "links [workbook.xlsx|table.csv]",
		Short: "Count Wikipedia links between the listed articles",
		Long: `Count Wikipedia links between the listed articles.

For every <lang>_title of the input sheet the outgoing links and the pages
linking in are fetched. The sheet "` + wikipedia.LinksSheet + `" lists each linked title
with the number of listed articles it links to and is linked from.

With --graph the strongest links of one language are drawn as a
node-link diagram (svg, pdf or png by extension).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLinks(cmd.Context(), args[0], flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.sheet, "sheet", defaultCorpusSheet, "input sheet")
	cmd.Flags().StringVar(&flags.graph, "graph", "", "write a link diagram to this file")
	cmd.Flags().StringVar(&flags.graphLang, "graph-lang", "", "language of the diagram (default: first language)")
	cmd.Flags().IntVar(&flags.graphLimit, "graph-limit", 40, "nodes kept in the diagram (0 keeps all)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show link counts in diagram labels")
	return cmd
}

func (c *CLI) runLinks(ctx context.Context, input string, flags linkFlags) error {
	logger := loggerFromContext(ctx)

	t, err := table.Open(input, flags.sheet)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	client, backend, err := c.newWikiClient(ctx, flags.noCache, flags.refresh)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Fetching links...")
	opts := c.wikiOptions(ctx, flags.wikiFlags, spinner, "Fetching links")
	spinner.Start()
	rep, err := wikipedia.CountLinks(ctx, client, t, opts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("count links: %w", err)
	}
	links := rep.Table()
	prog.done(fmt.Sprintf("Counted %d linked titles", links.Len()))

	out := flags.outputPath(input)
	if err := table.WriteXLSX(out, links); err != nil {
		return err
	}
	printSuccess("Counted links of %d articles", t.Len())
	printFile(out + " / " + links.Name)
	printFetchStats(rep.Requests, rep.Failures)

	if flags.graph == "" {
		return nil
	}
	lang := flags.graphLang
	if lang == "" {
		langs := opts.Languages
		if len(langs) == 0 {
			langs = wikipedia.Languages(t)
		}
		lang = langs[0]
	}
	g := rep.Graph(lang, wikipedia.ListedTitles(t, lang), flags.graphLimit)
	logger.Debugf("Link graph %s: %d nodes, %d edges", lang, g.NodeCount(), g.EdgeCount())

	data, err := renderLinkGraph(ctx, g, flags.graph, flags.detailed)
	if err != nil {
		return fmt.Errorf("render link graph: %w", err)
	}
	if err := writeOutput(flags.graph, data); err != nil {
		return err
	}
	printFile(flags.graph)
	return nil
}

// renderLinkGraph renders g in the format named by the extension of path.
func renderLinkGraph(ctx context.Context, g *nodelink.Graph, path string, detailed bool) ([]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "pdf":
		return nodelink.RenderPDF(ctx, dot)
	case "png":
		return nodelink.RenderPNG(ctx, dot, 2.0)
	case "dot", "gv":
		return []byte(dot), nil
	default:
		return nodelink.RenderSVG(ctx, dot)
	}
}
