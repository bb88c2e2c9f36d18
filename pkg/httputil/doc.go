// Package httputil provides retry helpers for the MediaWiki API clients.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses, honoring Retry-After
//
// The delay doubles after each attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchPageViews(ctx, title)
//	})
//
// [RetryWithBackoff] uses 3 attempts starting at one second. Response
// caching lives in the cache package.
package httputil
