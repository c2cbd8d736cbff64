package model

// StatusLabel classifies an overall score into a readiness band.
type StatusLabel int

const (
	// StatusCritical indicates an overall score below 70.
	StatusCritical StatusLabel = iota

	// StatusNeedsImprovement indicates an overall score of 70-79.
	StatusNeedsImprovement

	// StatusGood indicates an overall score of 80-89.
	StatusGood

	// StatusExcellent indicates an overall score of 90 or above.
	StatusExcellent
)

// String returns the label used in reports and stored in history.
func (s StatusLabel) String() string {
	switch s {
	case StatusCritical:
		return "critical"
	case StatusNeedsImprovement:
		return "needs-improvement"
	case StatusGood:
		return "good"
	case StatusExcellent:
		return "excellent"
	default:
		return "unknown"
	}
}
