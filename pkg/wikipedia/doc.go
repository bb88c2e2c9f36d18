// Package wikipedia fetches article statistics and link relations from the
// MediaWiki action API.
//
// # Client
//
// [Client] issues action=query requests against
// https://{lang}.wikipedia.org/w/api.php (formatversion 2). Every answer is
// cached through the cache package and transient failures are retried with
// backoff:
//
//	c := wikipedia.NewClient(backend, cache.TTLHTTP, buildinfo.UserAgent())
//	views, err := c.PageViews(ctx, "sv", "Kiruna")
//
// # Spreadsheets
//
// [EnrichStats] adds {lang}_pageviews and {lang}_size columns to a sheet
// whose {lang}_title columns name articles. [CountLinks] counts, per
// language, how many of the listed articles link to and from every other
// article; [LinkReport.Table] lays the counts out as the "links" sheet and
// [LinkReport.Graph] keeps the strongest relations for a diagram.
//
// Both fan out over a bounded errgroup. A failed request is logged and
// counted, never fatal: the affected cells keep their default.
package wikipedia
