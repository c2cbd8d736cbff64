package model

// Fallback values substituted when the external performance or validation
// API is unavailable. These mirror neutral "benefit of the doubt" scores
// rather than zeroes so that a flaky third-party service cannot tank an
// otherwise healthy page's grade.
const (
	// FallbackPerformanceScore is used when PageSpeed data is unavailable.
	FallbackPerformanceScore = 75

	// FallbackMobileUsability is used when PageSpeed data is unavailable.
	FallbackMobileUsability = 85

	// FallbackHTMLValidity is used when W3C validation is unavailable.
	FallbackHTMLValidity = 80

	// FallbackCoreWebVitals is used when no vitals signal is available.
	FallbackCoreWebVitals = 75
)

// PerformanceSnapshot holds optional external performance data from the
// PageSpeed Insights API and the W3C HTML validator.
//
// Design decision: API failures populate the snapshot with documented
// fallback constants instead of aborting the run. Graceful degradation is a
// first-class requirement: the grade must survive a dead third-party API.
type PerformanceSnapshot struct {
	// PageSpeedOK is true when the PageSpeed API call succeeded.
	// When false, PerformanceScore and MobileUsability hold fallbacks
	// and the vitals fields are zero.
	PageSpeedOK bool `json:"pagespeed_ok"`

	// PerformanceScore is the Lighthouse performance score (0-100).
	PerformanceScore float64 `json:"performance_score"`

	// MobileUsability is the Lighthouse accessibility score (0-100),
	// used as a mobile-usability proxy.
	MobileUsability float64 `json:"mobile_usability"`

	// LCPSeconds is the largest-contentful-paint time in seconds.
	// Zero when unavailable.
	LCPSeconds float64 `json:"lcp_seconds,omitempty"`

	// CLS is the cumulative-layout-shift score. Zero when unavailable.
	CLS float64 `json:"cls,omitempty"`

	// FIDMillis is the max-potential first-input-delay in milliseconds.
	// Zero when unavailable.
	FIDMillis float64 `json:"fid_millis,omitempty"`

	// HasVitals is true when LCP/CLS/FID were extracted successfully.
	HasVitals bool `json:"has_vitals"`

	// ValidationOK is true when the W3C validator call succeeded.
	ValidationOK bool `json:"validation_ok"`

	// HTMLValidityScore is the validity score derived from the W3C
	// error count (0-100).
	HTMLValidityScore float64 `json:"html_validity_score"`

	// HTMLErrorCount is the number of validation errors reported.
	HTMLErrorCount int `json:"html_error_count"`
}

// NewFallbackPerformanceSnapshot returns a snapshot populated entirely with
// the documented fallback constants. Used when every external call failed or
// external data collection is disabled.
func NewFallbackPerformanceSnapshot() *PerformanceSnapshot {
	return &PerformanceSnapshot{
		PageSpeedOK:       false,
		PerformanceScore:  FallbackPerformanceScore,
		MobileUsability:   FallbackMobileUsability,
		ValidationOK:      false,
		HTMLValidityScore: FallbackHTMLValidity,
	}
}

// CombinedScore blends performance, validity, and an accessibility heuristic
// into a single number. The accessibility component is a fixed heuristic
// since a true audit would require rendering.
func (p *PerformanceSnapshot) CombinedScore() int {
	const accessibilityHeuristic = 90

	combined := p.PerformanceScore*0.4 +
		p.HTMLValidityScore*0.3 +
		accessibilityHeuristic*0.3
	return int(combined + 0.5)
}
