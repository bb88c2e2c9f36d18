package wikipedia

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/integrations"
)

// DefaultEndpoint is the action API of each language edition. {lang} is
// replaced by the language code.
const DefaultEndpoint = "https://{lang}.wikipedia.org/w/api.php"

// maxContinuations bounds the pages fetched for one link listing.
const maxContinuations = 50

// Client queries the MediaWiki API of any Wikipedia language edition.
// It is safe for concurrent use.
type Client struct {
	http     *integrations.Client
	endpoint string
	refresh  bool
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint replaces the API URL pattern; it must contain {lang}.
func WithEndpoint(pattern string) Option {
	return func(c *Client) { c.endpoint = pattern }
}

// WithRefresh bypasses cached answers, still storing fresh ones.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http.SetHTTPClient(h) }
}

// WithKeyer replaces the cache key builder.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.http.SetKeyer(k) }
}

// NewClient creates a client caching answers in backend for ttl.
// Wikimedia asks every client to identify itself; userAgent is sent with
// each request.
func NewClient(backend cache.Cache, ttl time.Duration, userAgent string, opts ...Option) *Client {
	c := &Client{
		http: integrations.NewClient(backend, "wikipedia", ttl, map[string]string{
			"User-Agent": userAgent,
		}),
		endpoint: DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type link struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type page struct {
	PageID    int             `json:"pageid"`
	Title     string          `json:"title"`
	Missing   bool            `json:"missing"`
	Invalid   bool            `json:"invalid"`
	Revisions []revision      `json:"revisions"`
	PageViews map[string]*int `json:"pageviews"`
	Links     []link          `json:"links"`
	LinksHere []link          `json:"linkshere"`
}

type revision struct {
	Size int `json:"size"`
}

type queryResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Pages []page `json:"pages"`
	} `json:"query"`
	Error *apiError `json:"error"`
}

// PageSize returns the size in bytes of the current revision of title.
func (c *Client) PageSize(ctx context.Context, lang, title string) (int, error) {
	var size int
	err := c.cached(ctx, lang, "size", title, &size, func() error {
		p, err := c.page(ctx, lang, title, url.Values{"prop": {"revisions"}, "rvprop": {"size"}})
		if err != nil {
			return err
		}
		if len(p.Revisions) == 0 {
			return fmt.Errorf("%s:%s: no revisions", lang, title)
		}
		size = p.Revisions[0].Size
		return nil
	})
	return size, err
}

// PageViews returns the daily page views of title summed over the period
// the API reports (the last 60 days). Days without data count as zero.
func (c *Client) PageViews(ctx context.Context, lang, title string) (int, error) {
	var views int
	err := c.cached(ctx, lang, "pageviews", title, &views, func() error {
		p, err := c.page(ctx, lang, title, url.Values{"prop": {"pageviews"}})
		if err != nil {
			return err
		}
		views = SumViews(p.PageViews)
		return nil
	})
	return views, err
}

// SumViews adds up the known daily counts.
func SumViews(days map[string]*int) int {
	sum := 0
	for _, v := range days {
		if v != nil && *v > 0 {
			sum += *v
		}
	}
	return sum
}

// Links returns the titles title links to.
func (c *Client) Links(ctx context.Context, lang, title string) ([]string, error) {
	return c.linkList(ctx, lang, title, "links", "pllimit")
}

// LinksHere returns the titles of pages linking to title.
func (c *Client) LinksHere(ctx context.Context, lang, title string) ([]string, error) {
	return c.linkList(ctx, lang, title, "linkshere", "lhlimit")
}

func (c *Client) linkList(ctx context.Context, lang, title, prop, limitParam string) ([]string, error) {
	var titles []string
	err := c.cached(ctx, lang, prop, title, &titles, func() error {
		titles = titles[:0]
		params := url.Values{"prop": {prop}, limitParam: {"max"}}
		for range maxContinuations {
			var resp queryResponse
			if err := c.query(ctx, lang, title, params, &resp); err != nil {
				return err
			}
			p, err := firstPage(lang, title, resp)
			if err != nil {
				return err
			}
			list := p.Links
			if prop == "linkshere" {
				list = p.LinksHere
			}
			for _, l := range list {
				titles = append(titles, l.Title)
			}
			if len(resp.Continue) == 0 {
				return nil
			}
			for k, v := range resp.Continue {
				params.Set(k, v)
			}
		}
		return errors.New(errors.ErrCodeUnsupported, "%s:%s: %s listing exceeds %d pages", lang, title, prop, maxContinuations)
	})
	return titles, err
}

func (c *Client) cached(ctx context.Context, lang, prop, title string, v any, fetch func() error) error {
	if err := errors.ValidateLanguageCode(lang); err != nil {
		return err
	}
	title = integrations.NormalizeTitle(title)
	if title == "" {
		return errors.New(errors.ErrCodeInvalidInput, "empty article title")
	}
	return c.http.Cached(ctx, lang+"/"+prop+"/"+title, c.refresh, v, fetch)
}

func (c *Client) page(ctx context.Context, lang, title string, params url.Values) (page, error) {
	var resp queryResponse
	if err := c.query(ctx, lang, title, params, &resp); err != nil {
		return page{}, err
	}
	return firstPage(lang, title, resp)
}

func (c *Client) query(ctx context.Context, lang, title string, params url.Values, resp *queryResponse) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("titles", integrations.NormalizeTitle(title))

	u := strings.ReplaceAll(c.endpoint, "{lang}", lang) + "?" + q.Encode()
	if err := c.http.Get(ctx, u, resp); err != nil {
		return classify(lang, title, err)
	}
	if resp.Error != nil {
		return errors.New(errors.ErrCodeNetwork, "%s api: %s: %s", lang, resp.Error.Code, resp.Error.Info)
	}
	return nil
}

func firstPage(lang, title string, resp queryResponse) (page, error) {
	pages := resp.Query.Pages
	if len(pages) == 0 || pages[0].Missing || pages[0].Invalid {
		return page{}, errors.Wrap(errors.ErrCodeNotFound, integrations.ErrNotFound, "%s:%s", lang, title)
	}
	return pages[0], nil
}

// classify attaches an error code to a transport failure. Cancellation is
// passed through untouched.
func classify(lang, title string, err error) error {
	code := errors.ErrCodeNetwork
	switch {
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	case stderrors.Is(err, integrations.ErrNotFound):
		code = errors.ErrCodeNotFound
	case stderrors.Is(err, integrations.ErrRateLimited):
		code = errors.ErrCodeRateLimited
	}
	return errors.Wrap(code, err, "%s:%s", lang, title)
}
