package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// maxRobotsSize bounds how much of robots.txt we read. Real files are a
// few KB; anything bigger is truncated.
const maxRobotsSize = 512 * 1024

// FetchRobotsTxt retrieves the robots.txt for the page's host.
// A missing or unreachable robots.txt returns an empty string and no
// error: the crawlability analyzer treats "no robots.txt" as "no
// restrictions", which is exactly how crawlers behave.
func FetchRobotsTxt(ctx context.Context, client *http.Client, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return ""
	}

	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return ""
	}

	return string(body)
}
