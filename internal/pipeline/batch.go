package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/aigrader/internal/model"
)

// BatchProcessor handles concurrent grading of multiple URLs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-URL execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each URL.
	// We use a factory to ensure each run gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent grading runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent grading runs.
// Default is 5 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each URL to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// runs and allows for per-run customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     5,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// BatchResult pairs a graded URL with its outcome.
type BatchResult struct {
	// URL is the page that was graded.
	URL string

	// Report is the grade report, nil when the run failed.
	Report *model.GradeReport

	// Err is the failure, nil when the run succeeded.
	Err error
}

// ProcessBatch grades multiple URLs concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each URL gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns one result per URL in input order. A failed run produces a
// result with Err set rather than aborting the whole batch; the error
// return is non-nil only when the batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]BatchResult, error) {
	bp.logger.Info("starting batch grading",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]BatchResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = BatchResult{URL: url, Err: ctx.Err()}
				return ctx.Err()
			default:
			}

			bp.logger.Info("grading url",
				"url", url,
				"index", i+1,
				"total", len(urls),
			)

			state := NewState(url)
			if err := bp.pipelineFactory().Execute(ctx, state); err != nil {
				bp.logger.Error("grading failed", "url", url, "error", err)
				results[i] = BatchResult{URL: url, Err: err}
				// A single failed URL should not cancel its siblings.
				return nil
			}

			results[i] = BatchResult{URL: url, Report: state.Report}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch grading finished",
		"total_urls", len(urls),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	return results, err
}
