package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher performs single HTTP GETs with the configured User-Agent and
// timeout. It carries no retry policy: retrying (or not) belongs to the
// caller, and ContactFinder's callers deliberately never retry.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits how many bytes of a response body are read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHTTPClient replaces the underlying HTTP client. Mainly useful in
// tests; the replacement keeps its own timeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher with sensible defaults: a 15 second
// timeout, a descriptive User-Agent, and a 5MB body cap.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 15 * time.Second},
		userAgent:   "ContactFinder/1.0 (+https://github.com/nao1215/contactfinder)",
		maxBodySize: 5 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs exactly one HTTP GET and returns the response body as
// text. Non-UTF-8 bodies are decoded according to the Content-Type
// charset (common on older European member sites), so extraction always
// operates on UTF-8.
//
// All failure modes (DNS errors, refused connections, timeouts, and
// non-2xx responses) surface as *TransportError. Redirects are handled
// by the client's default policy.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(bodyReader, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	return string(body), nil
}
