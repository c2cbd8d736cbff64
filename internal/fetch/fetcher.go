package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// Fetcher retrieves a page and converts it into an analyzer-ready snapshot.
//
// Design decision: Both the static HTTP fetcher and the headless-browser
// fetcher implement this interface, and the capability split is expressed
// through the Renders method rather than separate types in callers. The
// pipeline selects a fetcher once at startup and everything downstream is
// fetcher-agnostic.
type Fetcher interface {
	// Fetch retrieves the page at rawURL and builds a snapshot.
	// The context bounds the whole operation including retries.
	Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error)

	// Renders reports whether this fetcher executes JavaScript before
	// snapshotting. Analyzers use this to phrase findings correctly
	// (a low word count on a non-rendering fetch may just mean a
	// client-side app).
	Renders() bool
}

// ValidateURL checks that rawURL is an absolute http(s) URL and returns
// the parsed form. A URL without a scheme gets "https://" prepended,
// matching what users type into a browser.
func ValidateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrInvalidURL
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}

	return u, nil
}
