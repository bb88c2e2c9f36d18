package wikipedia

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/render/nodelink"
	"github.com/treesquares/treesquares/pkg/table"
)

// LinksSheet names the sheet LinkReport tables are written to.
const LinksSheet = "links"

// Direction tells which way a link points relative to the listed article.
type Direction string

const (
	// From counts links from a listed article to the linked title.
	From Direction = "from"
	// To counts links from the linked title to a listed article.
	To Direction = "to"
)

// LinkCount holds, for one article of one language, how many listed
// articles it is linked from and links to.
type LinkCount struct {
	Lang  string
	Title string
	To    int
	From  int
}

// Total returns To + From.
func (c LinkCount) Total() int { return c.To + c.From }

type edgeKey struct {
	lang, source, target string
}

// LinkReport is the outcome of CountLinks.
type LinkReport struct {
	Languages []string
	Report

	counts map[string]map[string]*LinkCount
	edges  map[edgeKey]int
}

func newLinkReport(langs []string) *LinkReport {
	r := &LinkReport{
		Languages: langs,
		counts:    map[string]map[string]*LinkCount{},
		edges:     map[edgeKey]int{},
	}
	for _, l := range langs {
		r.counts[l] = map[string]*LinkCount{}
	}
	return r
}

func (r *LinkReport) add(lang, listed, linked string, dir Direction) {
	c, ok := r.counts[lang][linked]
	if !ok {
		c = &LinkCount{Lang: lang, Title: linked}
		r.counts[lang][linked] = c
	}
	if dir == From {
		c.From++
		r.edges[edgeKey{lang, listed, linked}]++
	} else {
		c.To++
		r.edges[edgeKey{lang, linked, listed}]++
	}
}

// Counts returns the counts of lang ordered by title.
func (r *LinkReport) Counts(lang string) []LinkCount {
	out := make([]LinkCount, 0, len(r.counts[lang]))
	for _, c := range r.counts[lang] {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b LinkCount) int { return table.Compare(a.Title, b.Title) })
	return out
}

// Table lays the counts out with columns nr, title, lang, to, from: by
// language in report order, then by title, numbered from 1.
func (r *LinkReport) Table() *table.Table {
	t := table.New(LinksSheet, []string{"nr", "title", "lang", "to", "from"})
	nr := 0
	for _, lang := range r.Languages {
		for _, c := range r.Counts(lang) {
			nr++
			t.Append([]string{strconv.Itoa(nr), c.Title, c.Lang, strconv.Itoa(c.To), strconv.Itoa(c.From)})
		}
	}
	return t
}

// Graph returns the link graph of lang restricted to the limit strongest
// edges (limit <= 0 keeps all). Listed articles are roots.
func (r *LinkReport) Graph(lang string, listed []string, limit int) *nodelink.Graph {
	g := nodelink.New()
	for _, title := range listed {
		g.AddNode(nodelink.Node{ID: title, Label: title, Root: true, Meta: map[string]string{"lang": lang}})
	}

	keys := make([]edgeKey, 0, len(r.edges))
	for k := range r.edges {
		if k.lang == lang {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b edgeKey) int {
		if c := table.Compare(a.source, b.source); c != 0 {
			return c
		}
		return table.Compare(a.target, b.target)
	})
	for _, k := range keys {
		g.AddEdge(nodelink.Edge{From: k.source, To: k.target, Weight: float64(r.edges[k])})
	}
	for _, n := range g.Nodes() {
		if c, ok := r.counts[lang][n.ID]; ok {
			n.Weight = float64(c.Total())
			g.AddNode(n)
		}
	}
	return g.Prune(limit)
}

// ListedTitles returns the non-empty titles of lang in row order.
func ListedTitles(t *table.Table, lang string) []string {
	var out []string
	for r := range t.Rows {
		if title := t.Value(r, TitleColumn(lang)); title != "" {
			out = append(out, title)
		}
	}
	return out
}

// CountLinks fetches, for every listed title, the outgoing links and the
// pages linking in, and counts them per linked title and language.
// Request failures are logged and counted; only cancellation aborts.
func CountLinks(ctx context.Context, c *Client, t *table.Table, opts Options) (*LinkReport, error) {
	opts.setDefaults(t)
	if len(opts.Languages) == 0 {
		return nil, errors.New(errors.ErrCodeMissingColumn, "%s: no <lang>_title columns", t.Name)
	}

	rep := newLinkReport(opts.Languages)
	tasks := tasksFor(t, opts.Languages)
	total := 2 * len(tasks)
	rep.Requests = total

	var mu sync.Mutex
	done := 0
	finish := func(tk task, dir Direction, titles []string, err error) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if err != nil {
			rep.Failures++
			opts.Logger.Warn("wikipedia request failed", "lang", tk.lang, "title", tk.title, "direction", dir, "err", err)
		} else {
			for _, linked := range titles {
				rep.add(tk.lang, tk.title, linked, dir)
			}
			opts.Logger.Debug("wikipedia links", "lang", tk.lang, "title", tk.title, "direction", dir, "count", len(titles))
		}
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, tk := range tasks {
		g.Go(func() error {
			titles, err := c.Links(gctx, tk.lang, tk.title)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			finish(tk, From, titles, err)
			return nil
		})
		g.Go(func() error {
			titles, err := c.LinksHere(gctx, tk.lang, tk.title)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			finish(tk, To, titles, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	return rep, nil
}
