package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a page or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the API keeps answering 429.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizeTitle converts an article title to the form used in cache keys:
// surrounding space trimmed, underscores shown as spaces and inner runs of
// whitespace collapsed.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(title, "_", " ")), " ")
}
