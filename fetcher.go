package webhist

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET request for the URL and returns the response body
	// decoded as UTF-8 text. Non-success statuses are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
