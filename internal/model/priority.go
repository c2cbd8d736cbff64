package model

// Priority represents the urgency of a recommendation.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// the human-readable labels used in reports.
type Priority int

const (
	// PriorityBestPractice marks optional polish that follows industry
	// guidance but has little measurable score impact.
	PriorityBestPractice Priority = iota

	// PriorityQuickWin marks low-effort changes that can be implemented
	// immediately (e.g., add a missing viewport tag).
	PriorityQuickWin

	// PriorityMedium marks improvements with moderate score impact.
	PriorityMedium

	// PriorityHigh marks changes that significantly affect how AI systems
	// and crawlers consume the page.
	PriorityHigh

	// PriorityCritical marks problems that make the page largely invisible
	// or unusable for AI consumption (e.g., no structured data at all,
	// content rendered entirely by JavaScript).
	PriorityCritical
)

// String returns a human-readable representation of the priority level.
func (p Priority) String() string {
	switch p {
	case PriorityBestPractice:
		return "BEST PRACTICE"
	case PriorityQuickWin:
		return "QUICK WIN"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Recommendation is a prioritized, actionable suggestion attached to a
// metric result.
type Recommendation struct {
	// Priority is the urgency of this recommendation.
	Priority Priority `json:"priority"`

	// PriorityText is the human-readable priority label.
	PriorityText string `json:"priority_text"`

	// Title is a one-line summary of the recommended change.
	Title string `json:"title"`

	// Details contains concrete implementation steps.
	Details []string `json:"details,omitempty"`
}

// NewRecommendation creates a recommendation with the priority text filled in.
func NewRecommendation(priority Priority, title string, details ...string) Recommendation {
	return Recommendation{
		Priority:     priority,
		PriorityText: priority.String(),
		Title:        title,
		Details:      details,
	}
}
