package report

import (
	"sort"

	"github.com/nao1215/aigrader/internal/model"
)

// sortedMetricKeys returns metric names in alphabetical order so that
// report output is deterministic across runs.
func sortedMetricKeys(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// priorityOrder returns recommendation priorities highest-first.
func priorityOrder() []model.Priority {
	return []model.Priority{
		model.PriorityCritical,
		model.PriorityHigh,
		model.PriorityMedium,
		model.PriorityQuickWin,
		model.PriorityBestPractice,
	}
}

// recommendationsByPriority collects every recommendation of the given
// priority across all categories, preserving category order.
func recommendationsByPriority(report *model.GradeReport, p model.Priority) []model.Recommendation {
	var recs []model.Recommendation
	for _, c := range report.Categories {
		if c.Result == nil {
			continue
		}
		for _, rec := range c.Result.Recommendations {
			if rec.Priority == p {
				recs = append(recs, rec)
			}
		}
	}
	return recs
}
