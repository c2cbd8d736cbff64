package model

// MetricResult holds the output of a single category analyzer.
//
// Scores maps metric keys (e.g., "content_chunkability") to values in the
// range 0-100. Findings are human-readable observations about what the
// analyzer saw. Recommendations are prioritized suggestions for improving
// the metrics in this category.
type MetricResult struct {
	// Scores maps metric name to a 0-100 score.
	Scores map[string]float64 `json:"scores"`

	// Findings are observations produced while analyzing the page.
	Findings []string `json:"findings,omitempty"`

	// Recommendations are prioritized improvement suggestions.
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// NewMetricResult creates an empty metric result with an initialized score map.
func NewMetricResult() *MetricResult {
	return &MetricResult{
		Scores: make(map[string]float64),
	}
}

// SetScore records a score for the given metric key.
func (r *MetricResult) SetScore(key string, score float64) {
	r.Scores[key] = score
}

// AddFinding appends an observation to the result.
func (r *MetricResult) AddFinding(finding string) {
	r.Findings = append(r.Findings, finding)
}

// AddRecommendation appends a prioritized suggestion to the result.
func (r *MetricResult) AddRecommendation(rec Recommendation) {
	r.Recommendations = append(r.Recommendations, rec)
}
