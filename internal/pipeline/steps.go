package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/aigrader/internal/analyzer"
	"github.com/nao1215/aigrader/internal/database"
	"github.com/nao1215/aigrader/internal/fetch"
	"github.com/nao1215/aigrader/internal/model"
	"github.com/nao1215/aigrader/internal/report"
	"github.com/nao1215/aigrader/internal/score"
)

// renderFallbackWordCount is the word count below which a static fetch
// is assumed to have hit a client-rendered app; if a rendering fetcher
// is available, the page is fetched again with it.
const renderFallbackWordCount = 100

// FetchStep fetches and parses the target page.
//
// Design decision: The step takes a primary fetcher and an optional
// renderer. When the primary fetch yields almost no text and does not
// render JavaScript, the step retries with the renderer. This keeps the
// fast static path as the default while still grading client-rendered
// apps on their real content.
type FetchStep struct {
	// fetcher performs the primary page fetch.
	fetcher fetch.Fetcher

	// renderer, if non-nil, is used when the primary fetch yields a
	// near-empty page and the primary fetcher does not render.
	renderer fetch.Fetcher

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithRenderer sets the fallback rendering fetcher.
func WithRenderer(renderer fetch.Fetcher) FetchStepOption {
	return func(s *FetchStep) {
		s.renderer = renderer
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new page fetch step.
func NewFetchStep(fetcher fetch.Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, state *State) error {
	snap, err := s.fetcher.Fetch(ctx, state.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", state.URL, err)
	}

	if snap.WordCount < renderFallbackWordCount && !s.fetcher.Renders() && s.renderer != nil {
		s.logger.Info("static fetch yielded little text, retrying with renderer",
			"url", state.URL,
			"word_count", snap.WordCount,
		)
		rendered, rerr := s.renderer.Fetch(ctx, state.URL)
		if rerr != nil {
			s.logger.Warn("rendered fetch failed, keeping static snapshot",
				"url", state.URL,
				"error", rerr,
			)
		} else {
			snap = rendered
		}
	}

	state.Snapshot = snap
	return nil
}

// RobotsStep fetches the site's robots.txt for the crawlability analyzer.
// A missing or unreachable robots.txt is not an error.
type RobotsStep struct {
	// client is the HTTP client used for the robots.txt request.
	client *http.Client
}

// NewRobotsStep creates a new robots.txt collection step.
func NewRobotsStep(client *http.Client) *RobotsStep {
	return &RobotsStep{client: client}
}

// Name returns the step name.
func (s *RobotsStep) Name() string {
	return "robots"
}

// Do executes the robots.txt fetch.
func (s *RobotsStep) Do(ctx context.Context, state *State) error {
	if state.Snapshot == nil {
		return fmt.Errorf("robots step requires a fetched snapshot")
	}
	state.Snapshot.RobotsTxt = fetch.FetchRobotsTxt(ctx, s.client, state.Snapshot.URL)
	return nil
}

// Measurer is the part of performance.Client the pipeline needs.
// Declared as an interface so tests can substitute a stub.
type Measurer interface {
	Measure(ctx context.Context, pageURL string) *model.PerformanceSnapshot
}

// PerformanceStep collects external performance and validation data.
// Failures never abort the run: the performance client substitutes
// neutral fallback values itself.
type PerformanceStep struct {
	// client measures PageSpeed and HTML validity. Nil disables external
	// measurement entirely.
	client Measurer
}

// NewPerformanceStep creates a new performance measurement step.
// Pass nil to disable external measurement and use fallback values.
func NewPerformanceStep(client Measurer) *PerformanceStep {
	return &PerformanceStep{client: client}
}

// Name returns the step name.
func (s *PerformanceStep) Name() string {
	return "performance"
}

// Do executes the performance measurement.
func (s *PerformanceStep) Do(ctx context.Context, state *State) error {
	if s.client == nil {
		state.Performance = model.NewFallbackPerformanceSnapshot()
		return nil
	}
	state.Performance = s.client.Measure(ctx, state.URL)
	return nil
}

// AnalyzeStep runs all category analyzers against the snapshot.
type AnalyzeStep struct {
	// runner executes the analyzer set.
	runner *analyzer.Runner

	// referenceYear anchors content-currency checks.
	referenceYear int
}

// NewAnalyzeStep creates a new analysis step.
func NewAnalyzeStep(runner *analyzer.Runner, referenceYear int) *AnalyzeStep {
	return &AnalyzeStep{
		runner:        runner,
		referenceYear: referenceYear,
	}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do executes the analyzers.
func (s *AnalyzeStep) Do(ctx context.Context, state *State) error {
	if state.Snapshot == nil {
		return fmt.Errorf("analyze step requires a fetched snapshot")
	}

	perf := state.Performance
	if perf == nil {
		perf = model.NewFallbackPerformanceSnapshot()
		state.Performance = perf
	}

	results, err := s.runner.Run(ctx, &analyzer.Input{
		Snapshot:      state.Snapshot,
		Performance:   perf,
		ReferenceYear: s.referenceYear,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", state.URL, err)
	}

	state.Results = results
	return nil
}

// AggregateStep turns analyzer results into the final grade report.
type AggregateStep struct {
	// aggregator computes category means and the weighted overall score.
	aggregator *score.Aggregator
}

// NewAggregateStep creates a new aggregation step.
func NewAggregateStep(aggregator *score.Aggregator) *AggregateStep {
	return &AggregateStep{aggregator: aggregator}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregation.
func (s *AggregateStep) Do(_ context.Context, state *State) error {
	if state.Snapshot == nil || state.Results == nil {
		return fmt.Errorf("aggregate step requires snapshot and analyzer results")
	}

	gradedAt := state.StartedAt
	if gradedAt.IsZero() {
		gradedAt = time.Now()
	}

	state.Report = s.aggregator.Aggregate(state.Snapshot, state.Performance, state.Results, gradedAt)
	return nil
}

// PersistStep saves the finished report to the history database.
// Persistence failures are logged but never abort the run: the user
// still gets their report.
type PersistStep struct {
	// db is the history database.
	db *database.HistoryDB

	// logger for structured logging.
	logger *slog.Logger
}

// NewPersistStep creates a new history persistence step.
func NewPersistStep(db *database.HistoryDB, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence.
func (s *PersistStep) Do(ctx context.Context, state *State) error {
	if state.Report == nil {
		return fmt.Errorf("persist step requires an aggregated report")
	}

	// A nil database means persistence is disabled.
	if s.db == nil {
		return nil
	}

	if err := s.db.SaveReport(ctx, state.Report); err != nil {
		s.logger.Warn("failed to save report to history",
			"url", state.URL,
			"error", err,
		)
	}
	return nil
}

// ReportStep writes the finished report to the configured outputs.
type ReportStep struct {
	// writer receives the report. Usually a report.MultiWriter.
	writer report.Writer
}

// NewReportStep creates a new report output step.
func NewReportStep(writer report.Writer) *ReportStep {
	return &ReportStep{writer: writer}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do executes the report output.
func (s *ReportStep) Do(_ context.Context, state *State) error {
	if state.Report == nil {
		return fmt.Errorf("report step requires an aggregated report")
	}

	if _, err := s.writer.Write(state.Report); err != nil {
		return fmt.Errorf("write report for %s: %w", state.URL, err)
	}
	return nil
}
