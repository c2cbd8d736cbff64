package performance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/aigrader/internal/model"
)

// Default API endpoints. Both are public services; PageSpeed accepts an
// optional API key for higher rate limits.
const (
	DefaultPageSpeedURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	DefaultValidatorURL = "https://validator.w3.org/nu/"
)

// Client fetches external performance and validation data for a page.
//
// Design decision: Every failure path returns fallback values instead of
// an error. External measurement is best-effort enrichment; the analyzers
// must produce a grade whether or not Google and the W3C are reachable.
type Client struct {
	// httpClient is the HTTP client used for both APIs.
	httpClient *http.Client

	// pageSpeedURL is the PageSpeed Insights endpoint.
	pageSpeedURL string

	// validatorURL is the W3C Nu validator endpoint.
	validatorURL string

	// apiKey is the optional PageSpeed API key.
	apiKey string

	// userAgent identifies the grader to the validator service.
	userAgent string

	// logger records API failures at debug level.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the PageSpeed Insights API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithEndpoints overrides the API endpoints. Used by tests to point at
// local servers.
func WithEndpoints(pageSpeedURL, validatorURL string) ClientOption {
	return func(c *Client) {
		c.pageSpeedURL = pageSpeedURL
		c.validatorURL = validatorURL
	}
}

// WithUserAgent sets the User-Agent sent to the validator.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for API failure diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a performance client using the given HTTP client.
func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   httpClient,
		pageSpeedURL: DefaultPageSpeedURL,
		validatorURL: DefaultValidatorURL,
		userAgent:    "aigrader/1.0",
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Measure runs both external measurements and merges them into one snapshot.
// Each API failure falls back independently, so a working validator still
// contributes real data when PageSpeed is down.
func (c *Client) Measure(ctx context.Context, pageURL string) *model.PerformanceSnapshot {
	snap := model.NewFallbackPerformanceSnapshot()

	c.measurePageSpeed(ctx, pageURL, snap)
	c.measureValidation(ctx, pageURL, snap)

	return snap
}

// pageSpeedResponse mirrors the subset of the PageSpeed Insights v5
// response the grader consumes.
type pageSpeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
			Accessibility struct {
				Score float64 `json:"score"`
			} `json:"accessibility"`
		} `json:"categories"`
		Audits struct {
			LargestContentfulPaint struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"largest-contentful-paint"`
			CumulativeLayoutShift struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"cumulative-layout-shift"`
			MaxPotentialFID struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"max-potential-fid"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// measurePageSpeed calls the PageSpeed Insights API with the mobile
// strategy and fills in Lighthouse scores and Core Web Vitals.
func (c *Client) measurePageSpeed(ctx context.Context, pageURL string, snap *model.PerformanceSnapshot) {
	params := url.Values{}
	params.Set("url", pageURL)
	params.Set("strategy", "mobile")
	params.Add("category", "performance")
	params.Add("category", "accessibility")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var resp pageSpeedResponse
	if err := c.getJSON(ctx, c.pageSpeedURL+"?"+params.Encode(), &resp); err != nil {
		c.logger.DebugContext(ctx, "pagespeed API unavailable, using fallback scores", "error", err)
		return
	}

	snap.PageSpeedOK = true
	// Lighthouse scores arrive as 0-1 fractions.
	snap.PerformanceScore = resp.LighthouseResult.Categories.Performance.Score * 100
	snap.MobileUsability = resp.LighthouseResult.Categories.Accessibility.Score * 100

	audits := resp.LighthouseResult.Audits
	if audits.LargestContentfulPaint.NumericValue > 0 {
		snap.LCPSeconds = audits.LargestContentfulPaint.NumericValue / 1000
		snap.CLS = audits.CumulativeLayoutShift.NumericValue
		snap.FIDMillis = audits.MaxPotentialFID.NumericValue
		snap.HasVitals = true
	}
}

// validatorResponse mirrors the W3C Nu validator JSON output.
type validatorResponse struct {
	Messages []struct {
		Type string `json:"type"`
	} `json:"messages"`
}

// measureValidation calls the W3C Nu validator and derives a validity
// score from the error count.
func (c *Client) measureValidation(ctx context.Context, pageURL string, snap *model.PerformanceSnapshot) {
	params := url.Values{}
	params.Set("doc", pageURL)
	params.Set("out", "json")

	var resp validatorResponse
	if err := c.getJSON(ctx, c.validatorURL+"?"+params.Encode(), &resp); err != nil {
		c.logger.DebugContext(ctx, "w3c validator unavailable, using fallback score", "error", err)
		return
	}

	errorCount := 0
	for _, m := range resp.Messages {
		if m.Type == "error" {
			errorCount++
		}
	}

	snap.ValidationOK = true
	snap.HTMLErrorCount = errorCount
	snap.HTMLValidityScore = validityScore(errorCount)
}

// validityScore maps a W3C error count onto a 0-100 score.
// Small error counts are common on otherwise healthy pages, so the scale
// is forgiving up to 20 errors and linear beyond.
func validityScore(errorCount int) float64 {
	switch {
	case errorCount == 0:
		return 100
	case errorCount <= 5:
		return 90
	case errorCount <= 10:
		return 80
	case errorCount <= 20:
		return 70
	default:
		score := 70 - (errorCount-20)*2
		if score < 0 {
			return 0
		}
		return float64(score)
	}
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	if resp.StatusCode != http.StatusOK {
		return &apiError{status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError reports a non-200 answer from an external API.
type apiError struct {
	status int
}

// Error implements the error interface.
func (e *apiError) Error() string {
	return "external API returned status " + http.StatusText(e.status)
}
