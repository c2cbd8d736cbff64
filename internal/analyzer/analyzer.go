package analyzer

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/aigrader/internal/model"
)

// Input carries everything an analyzer may consult. It is shared across
// concurrently running analyzers and must be treated as read-only.
type Input struct {
	// Snapshot is the parsed page.
	Snapshot *model.PageSnapshot

	// Performance holds external measurement results (or fallbacks).
	// Never nil; the pipeline substitutes fallback values when external
	// data collection is disabled or failed.
	Performance *model.PerformanceSnapshot

	// ReferenceYear anchors content-currency checks. Injected rather
	// than read from the clock so that results are reproducible.
	ReferenceYear int
}

// Analyzer grades one scoring category from the shared input.
//
// Design decision: Analyzers are pure functions of the Input. State such
// as the reference year lives in the Input, not the analyzer, so a single
// analyzer set can be reused across concurrent grading runs.
type Analyzer interface {
	// Category identifies the scoring category this analyzer produces.
	Category() model.Category

	// Analyze computes the category's metric scores, findings, and
	// recommendations.
	Analyze(ctx context.Context, in *Input) *model.MetricResult
}

// Runner executes a set of analyzers concurrently and collects their
// results by category.
type Runner struct {
	analyzers []Analyzer
	logger    *slog.Logger
}

// NewRunner creates a runner over the default analyzer set.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		analyzers: []Analyzer{
			NewAIOptimizationAnalyzer(),
			NewMobileAnalyzer(),
			NewCrawlabilityAnalyzer(),
			NewSchemaAnalyzer(),
			NewTechnicalSEOAnalyzer(),
			NewContentQualityAnalyzer(),
			NewEEATAnalyzer(),
		},
		logger: logger,
	}
}

// Run executes every analyzer against the input. Analyzers are independent,
// so they run in parallel; the input is immutable and each result map entry
// is written exactly once.
func (r *Runner) Run(ctx context.Context, in *Input) (map[model.Category]*model.MetricResult, error) {
	// Each goroutine writes its own slice slot; the map is built after
	// Wait so no goroutine ever touches shared structures.
	collected := make([]*model.MetricResult, len(r.analyzers))

	g, ctx := errgroup.WithContext(ctx)
	for i, a := range r.analyzers {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			r.logger.DebugContext(ctx, "running analyzer", "category", a.Category().Key())
			collected[i] = a.Analyze(ctx, in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[model.Category]*model.MetricResult, len(r.analyzers))
	for i, a := range r.analyzers {
		results[a.Category()] = collected[i]
	}
	return results, nil
}
