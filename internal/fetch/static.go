package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/aigrader/internal/model"
)

// StaticFetcher retrieves pages with a plain HTTP GET. It is the default
// fetcher: fast, cheap, and sufficient for server-rendered pages.
//
// Design decision: We take the http.Client from the caller rather than
// building one internally because:
//  1. Client configuration (timeouts, transport) stays in one place
//  2. Connection pooling works better with a shared client
//  3. Tests can inject httptest clients
type StaticFetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header sent with requests.
	userAgent string

	// headers are extra headers from the config file, applied to every
	// request.
	headers map[string]string

	// maxRetries is the number of retry attempts after a transient failure.
	maxRetries int

	// retryDelay is the pause between retry attempts.
	retryDelay time.Duration

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from unexpectedly large responses.
	maxBodySize int64
}

// StaticFetcherOption configures a StaticFetcher.
type StaticFetcherOption func(*StaticFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) StaticFetcherOption {
	return func(f *StaticFetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers applied to every request.
func WithHeaders(headers map[string]string) StaticFetcherOption {
	return func(f *StaticFetcher) {
		f.headers = headers
	}
}

// WithRetry configures the retry count and the delay between attempts.
func WithRetry(maxRetries int, delay time.Duration) StaticFetcherOption {
	return func(f *StaticFetcher) {
		f.maxRetries = maxRetries
		f.retryDelay = delay
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) StaticFetcherOption {
	return func(f *StaticFetcher) {
		f.maxBodySize = size
	}
}

// NewStaticFetcher creates a static fetcher using the given client.
func NewStaticFetcher(client *http.Client, opts ...StaticFetcherOption) *StaticFetcher {
	f := &StaticFetcher{
		client:      client,
		userAgent:   "aigrader/1.0",
		maxRetries:  2,
		retryDelay:  time.Second,
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Renders reports that this fetcher does not execute JavaScript.
func (f *StaticFetcher) Renders() bool {
	return false
}

// Fetch retrieves the page and builds a snapshot.
// Transient failures (network errors, 5xx, 429) are retried up to the
// configured limit with a fixed delay. Client errors (4xx) fail
// immediately because retrying cannot change a deterministic answer.
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &NetworkError{Err: ctx.Err()}
			case <-time.After(f.retryDelay):
			}
		}

		snap, err := f.fetchOnce(ctx, u.String())
		if err == nil {
			return snap, nil
		}

		lastErr = err
		if !IsTransient(err) {
			break
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single request/parse cycle.
func (f *StaticFetcher) fetchOnce(ctx context.Context, pageURL string) (*model.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, ErrInvalidURL
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	// Redirected 2xx responses still grade; hard failures do not.
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	limited := io.LimitReader(resp.Body, f.maxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, ErrBodyTooLarge
	}

	// Decode legacy charsets (Shift_JIS, ISO-8859-1, ...) to UTF-8 so
	// word counts and text metrics are correct for non-UTF-8 pages.
	reader, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		reader = bytes.NewReader(body)
	}

	return BuildSnapshot(resp.Request.URL.String(), resp.StatusCode, reader, false)
}
