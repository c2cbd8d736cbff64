// Package score aggregates per-category metric results into a graded
// report: category means, the weighted overall score, and the readiness
// status band.
package score

import (
	"fmt"
	"math"
	"time"

	"github.com/nao1215/aigrader/internal/config"
	"github.com/nao1215/aigrader/internal/model"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 1e-6

// Aggregator turns raw analyzer output into a GradeReport using a fixed
// set of category weights.
//
// Design decision: The aggregator copies its weight map at construction
// time. Callers often pass config maps that outlive the aggregator and
// may be mutated by flag binding; a private copy keeps scoring stable.
type Aggregator struct {
	weights map[string]float64
}

// NewAggregator creates an aggregator over the given category weights.
// The weights must cover every category and sum to 1.0.
func NewAggregator(weights map[string]float64) (*Aggregator, error) {
	if weights == nil {
		weights = config.DefaultWeights()
	}

	sum := 0.0
	copied := make(map[string]float64, len(weights))
	for _, c := range model.AllCategories() {
		w, ok := weights[c.Key()]
		if !ok {
			return nil, fmt.Errorf("score: missing weight for category %q", c.Key())
		}
		if w < 0 {
			return nil, fmt.Errorf("score: negative weight %v for category %q", w, c.Key())
		}
		copied[c.Key()] = w
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("score: category weights sum to %v, want 1.0", sum)
	}

	return &Aggregator{weights: copied}, nil
}

// CategoryScore computes a category's score as the mean of its metric
// scores, rounded to two decimal places. A category with no metrics
// scores zero.
func CategoryScore(result *model.MetricResult) float64 {
	if result == nil || len(result.Scores) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range result.Scores {
		sum += s
	}
	return math.Round(sum/float64(len(result.Scores))*100) / 100
}

// StatusForScore maps an overall score to its readiness band.
func StatusForScore(overall float64) model.StatusLabel {
	switch {
	case overall >= config.ExcellentThreshold:
		return model.StatusExcellent
	case overall >= config.GoodThreshold:
		return model.StatusGood
	case overall >= config.NeedsImprovementThreshold:
		return model.StatusNeedsImprovement
	default:
		return model.StatusCritical
	}
}

// Aggregate builds the complete report for one graded page.
//
// Categories are emitted in the canonical weight-descending order from
// model.AllCategories, so the result is independent of the iteration
// order of the results map.
func (a *Aggregator) Aggregate(snap *model.PageSnapshot, perf *model.PerformanceSnapshot, results map[model.Category]*model.MetricResult, gradedAt time.Time) *model.GradeReport {
	report := &model.GradeReport{
		URL:         snap.URL,
		GradedAt:    gradedAt,
		StatusCode:  snap.StatusCode,
		Rendered:    snap.Rendered,
		Performance: perf,
		Categories:  make([]model.CategoryResult, 0, len(a.weights)),
	}
	if perf != nil {
		report.CombinedPerformanceScore = perf.CombinedScore()
	}

	weighted := 0.0
	for _, c := range model.AllCategories() {
		result := results[c]
		catScore := CategoryScore(result)
		weight := a.weights[c.Key()]
		weighted += catScore * weight

		report.Categories = append(report.Categories, model.CategoryResult{
			Category:    c,
			Key:         c.Key(),
			DisplayName: c.DisplayName(),
			Score:       catScore,
			Weight:      weight,
			Result:      result,
		})
	}

	report.OverallScore = math.Round(weighted)
	report.Status = StatusForScore(report.OverallScore)
	report.StatusText = report.Status.String()
	return report
}
