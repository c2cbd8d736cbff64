package model

import "time"

// CategoryResult holds the score and analyzer output for a single category.
type CategoryResult struct {
	// Category identifies which scoring category this result belongs to.
	Category Category `json:"-"`

	// Key is the canonical category identifier (e.g., "ai_optimization").
	Key string `json:"key"`

	// DisplayName is the human-readable category name.
	DisplayName string `json:"display_name"`

	// Score is the category score: the mean of the metric scores, 0-100.
	Score float64 `json:"score"`

	// Weight is the category's contribution to the overall score.
	Weight float64 `json:"weight"`

	// Result holds the per-metric scores, findings and recommendations.
	Result *MetricResult `json:"result"`
}

// GradeReport is the complete output of grading a single URL.
//
// Design decision: Categories is a slice rather than a map so that report
// writers render categories in a stable, weight-descending order without
// sorting at render time.
type GradeReport struct {
	// URL is the page that was graded.
	URL string `json:"url"`

	// GradedAt is when the grading run started.
	GradedAt time.Time `json:"graded_at"`

	// StatusCode is the HTTP status returned when fetching the page.
	StatusCode int `json:"status_code"`

	// Rendered reports whether the page was fetched with a headless
	// browser rather than a plain HTTP request.
	Rendered bool `json:"rendered"`

	// OverallScore is the weighted sum of category scores, 0-100.
	OverallScore float64 `json:"overall_score"`

	// Status is the readiness band derived from the overall score.
	Status StatusLabel `json:"-"`

	// StatusText is the human-readable status label.
	StatusText string `json:"status"`

	// Categories holds per-category results in weight-descending order.
	Categories []CategoryResult `json:"categories"`

	// Performance holds external measurement results (or fallbacks).
	Performance *PerformanceSnapshot `json:"performance,omitempty"`

	// CombinedPerformanceScore blends speed, HTML validity, and the
	// accessibility heuristic into a single 0-100 health indicator.
	CombinedPerformanceScore int `json:"combined_performance_score"`
}

// CategoryScores returns a map of category key to score for compact
// serialization, such as the history database.
func (r *GradeReport) CategoryScores() map[string]float64 {
	scores := make(map[string]float64, len(r.Categories))
	for _, c := range r.Categories {
		scores[c.Key] = c.Score
	}
	return scores
}

// TotalRecommendations returns the number of recommendations across all
// categories.
func (r *GradeReport) TotalRecommendations() int {
	n := 0
	for _, c := range r.Categories {
		if c.Result != nil {
			n += len(c.Result.Recommendations)
		}
	}
	return n
}
