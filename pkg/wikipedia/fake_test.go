package wikipedia

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treesquares/treesquares/pkg/cache"
)

// fakeWiki serves a tiny MediaWiki action API for a few articles.
type fakeWiki struct {
	mu       sync.Mutex
	requests int

	// Articles absent from sizes are reported missing.
	sizes     map[string]int
	views     map[string]map[string]*int
	links     map[string][]string
	linksHere map[string][]string
	// pageSize splits link listings into continuation pages.
	pageSize int
}

func intp(v int) *int { return &v }

func newFakeWiki() *fakeWiki {
	return &fakeWiki{
		sizes: map[string]int{
			"sv/Kiruna":    41230,
			"en/Kiruna":    30112,
			"sv/Gällivare": 20001,
		},
		views: map[string]map[string]*int{
			"sv/Kiruna":    {"2024-01-01": intp(120), "2024-01-02": nil, "2024-01-03": intp(80)},
			"en/Kiruna":    {"2024-01-01": intp(300)},
			"sv/Gällivare": {"2024-01-01": intp(0)},
		},
		links: map[string][]string{
			"sv/Kiruna":    {"Gällivare", "Malmfälten", "Luleå"},
			"sv/Gällivare": {"Kiruna", "Malmfälten"},
		},
		linksHere: map[string][]string{
			"sv/Kiruna":    {"Gällivare", "Abisko"},
			"sv/Gällivare": {"Kiruna"},
		},
		pageSize: 2,
	}
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()

	lang := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]
	q := r.URL.Query()
	if q.Get("action") != "query" || q.Get("formatversion") != "2" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	title := q.Get("titles")
	key := lang + "/" + title

	p := map[string]any{"title": title, "ns": 0}
	_, known := f.sizes[key]
	if !known {
		p["missing"] = true
	} else {
		p["pageid"] = len(key)
	}

	resp := map[string]any{}
	switch q.Get("prop") {
	case "revisions":
		if known {
			p["revisions"] = []map[string]int{{"size": f.sizes[key]}}
		}
	case "pageviews":
		if known {
			p["pageviews"] = f.views[key]
		}
	case "links":
		list, cont := f.page(f.links[key], q.Get("plcontinue"))
		p["links"] = list
		if cont != "" {
			resp["continue"] = map[string]string{"plcontinue": cont, "continue": "||"}
		}
	case "linkshere":
		list, cont := f.page(f.linksHere[key], q.Get("lhcontinue"))
		p["linkshere"] = list
		if cont != "" {
			resp["continue"] = map[string]string{"lhcontinue": cont, "continue": "||"}
		}
	}
	resp["query"] = map[string]any{"pages": []any{p}}
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeWiki) page(all []string, cont string) ([]map[string]any, string) {
	start := 0
	if cont != "" {
		start = len(cont)
	}
	end := min(start+f.pageSize, len(all))
	var out []map[string]any
	for _, t := range all[start:end] {
		out = append(out, map[string]any{"ns": 0, "title": t})
	}
	if end < len(all) {
		return out, strings.Repeat("x", end)
	}
	return out, ""
}

func (f *fakeWiki) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func newTestClient(t *testing.T, f http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	backend, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithEndpoint(srv.URL + "/{lang}/w/api.php"), WithHTTPClient(srv.Client())}, opts...)
	return NewClient(backend, time.Hour, "treesquares/test", opts...)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
