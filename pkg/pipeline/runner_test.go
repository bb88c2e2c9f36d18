package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/render/treemap/styles"
	"github.com/treesquares/treesquares/pkg/table"
)

func testTable() *table.Table {
	t := table.New("lan", []string{"landsdel", "lan", "yta", "skog"})
	t.Append([]string{"Norrland", "Norrbotten", "97239", "0.6"})
	t.Append([]string{"Norrland", "Jämtland", "48935", "0.7"})
	t.Append([]string{"Svealand", "Uppsala", "8189", "0.4"})
	t.Append([]string{"Götaland", "", "2500", "0.1"})
	t.Append([]string{"Götaland", "Gotland", "0", ""})
	return t
}

func testOptions() Options {
	return Options{
		Hierarchy: []string{"landsdel", "lan"},
		Area:      "yta",
		Quality:   "skog",
		Rules: styles.Rules{
			{Op: styles.GreaterThan, Threshold: 0.5, Background: "green", Foreground: "white"},
			{Op: styles.CatchAll, Background: "#eeeeee"},
		},
		Formats:   []string{FormatSVG, FormatJSON},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)

	res, err := r.Execute(context.Background(), testTable(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Rows != 5 || res.Stats.Cells != 7 {
		t.Errorf("stats = %+v, want 5 rows, 7 cells", res.Stats)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("diagnostics = %v, want 1", res.Diagnostics)
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run reported a cache hit")
	}
	if res.TableHash == "" {
		t.Error("table hash not set")
	}

	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, "<!-- Source: lan -->") {
		t.Errorf("svg lacks source comment:\n%s", svg)
	}
	var doc map[string]any
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc["area"] != "yta" {
		t.Errorf("json area = %v", doc["area"])
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Execute(ctx, testTable(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, testTable(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run missed the cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	changed := testTable()
	changed.Set(0, "yta", "1")
	third, err := r.Execute(ctx, changed, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("changed table served from cache")
	}

	opts := testOptions()
	opts.Refresh = true
	fourth, err := r.Execute(ctx, testTable(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("refresh served from cache")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	a, err := NewRunner(nil, nil, log.New(io.Discard)).Execute(context.Background(), testTable(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, log.New(io.Discard)).Execute(context.Background(), testTable(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Artifacts[FormatSVG]) != string(b.Artifacts[FormatSVG]) {
		t.Error("identical inputs rendered differently")
	}
}

func TestExecuteMissingColumn(t *testing.T) {
	opts := testOptions()
	opts.Hierarchy = []string{"landsdel", "kommun"}

	_, err := newTestRunner(t).Execute(context.Background(), testTable(), opts)
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeMissingColumn)
	}
	if !errors.IsSkippable(err) {
		t.Error("missing column should be skippable")
	}
}
