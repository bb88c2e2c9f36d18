package wikipedia

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/treesquares/treesquares/pkg/table"
)

func TestCountLinks(t *testing.T) {
	c := newTestClient(t, newFakeWiki())
	tbl := table.New("personer", []string{"sv_title"})
	tbl.Append([]string{"Kiruna"})
	tbl.Append([]string{"Gällivare"})

	rep, err := CountLinks(context.Background(), c, tbl, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("CountLinks: %v", err)
	}
	if rep.Requests != 4 || rep.Failures != 0 {
		t.Errorf("report = %+v, want 4 requests, no failures", rep.Report)
	}

	want := [][]string{
		{"1", "Abisko", "sv", "1", "0"},
		{"2", "Gällivare", "sv", "1", "1"},
		{"3", "Kiruna", "sv", "1", "1"},
		{"4", "Luleå", "sv", "0", "1"},
		{"5", "Malmfälten", "sv", "0", "2"},
	}
	out := rep.Table()
	if diff := cmp.Diff([]string{"nr", "title", "lang", "to", "from"}, out.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	g := rep.Graph("sv", ListedTitles(tbl, "sv"), 2)
	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Errorf("pruned graph has %d nodes, %d edges; want 2, 2", g.NodeCount(), g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if e.Weight != 2 {
			t.Errorf("edge %s -> %s weight %g, want 2", e.From, e.To, e.Weight)
		}
	}

	full := rep.Graph("sv", ListedTitles(tbl, "sv"), 0)
	if full.NodeCount() != 5 {
		t.Errorf("full graph nodes = %d, want 5", full.NodeCount())
	}
}

func TestCountLinksMissingArticle(t *testing.T) {
	c := newTestClient(t, newFakeWiki())
	tbl := table.New("personer", []string{"sv_title"})
	tbl.Append([]string{"Finns inte"})

	rep, err := CountLinks(context.Background(), c, tbl, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Failures != 2 {
		t.Errorf("failures = %d, want 2", rep.Failures)
	}
	if got := rep.Table().Len(); got != 0 {
		t.Errorf("rows = %d, want 0", got)
	}
}

func TestLinkCountTotal(t *testing.T) {
	if got := (LinkCount{To: 2, From: 3}).Total(); got != 5 {
		t.Errorf("Total = %d, want 5", got)
	}
}
