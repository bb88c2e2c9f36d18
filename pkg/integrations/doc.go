// Package integrations provides the shared HTTP client for remote APIs.
//
// # Overview
//
// The [Client] type wraps net/http with what every API client in this
// module needs:
//
//   - Response caching through [cache.Cache], keyed per namespace
//   - Retry with exponential backoff for network errors, 5xx and 429
//   - Default headers such as the User-Agent required by Wikimedia
//   - Request and response events through the observability hooks
//
// Service-specific clients such as the wikipedia package embed a Client
// and only describe their endpoints and response shapes:
//
//	c := integrations.NewClient(backend, "wp", 24*time.Hour, map[string]string{
//	    "User-Agent": buildinfo.UserAgent(),
//	})
//	var resp queryResponse
//	err := c.Cached(ctx, key, false, &resp, func() error {
//	    return c.Get(ctx, url, &resp)
//	})
//
// [cache.Cache]: github.com/treesquares/treesquares/pkg/cache.Cache
package integrations
