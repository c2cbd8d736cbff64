package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/aigrader/internal/analyzer"
	"github.com/nao1215/aigrader/internal/config"
	"github.com/nao1215/aigrader/internal/database"
	"github.com/nao1215/aigrader/internal/fetch"
	"github.com/nao1215/aigrader/internal/log"
	"github.com/nao1215/aigrader/internal/model"
	"github.com/nao1215/aigrader/internal/performance"
	"github.com/nao1215/aigrader/internal/pipeline"
	"github.com/nao1215/aigrader/internal/report"
	"github.com/nao1215/aigrader/internal/score"
	"github.com/spf13/cobra"
)

// NewGradeCmd creates the grade command.
func NewGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade [url]",
		Short: "Grade a website's readiness for AI-driven search",
		Long: `Grade fetches a web page and scores it for AI-driven search readiness.

The page is analyzed across seven weighted categories:
- AI optimization (content chunkability, Q&A format, factual density)
- Mobile optimization (viewport, responsive design, Core Web Vitals)
- Technical crawlability (robots directives, bot access, JS dependence)
- Schema analysis (JSON-LD, microdata, rich snippet potential)
- Technical SEO (headings, meta tags, alt text, links)
- Content quality (coverage, intent alignment, currency)
- E-E-A-T signals (author, citations, trust indicators)

Examples:
  # Grade a single page
  aigrader grade https://example.com

  # Grade multiple pages concurrently
  aigrader grade https://example.com https://example.org

  # Enable headless-browser rendering for JavaScript-heavy pages
  aigrader grade --render https://spa.example.com

  # Output JSON report to a file
  aigrader grade --json -o report.json https://example.com

  # Skip external APIs for a fully offline, deterministic run
  aigrader grade --no-external https://example.com

Configuration file (.aigrader) example:
  weights:
    ai_optimization: 0.30
    mobile_optimization: 0.15
  pageSpeedApiKey: "your-api-key"
  headers:
    Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runGradeCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Retry attempts after transient fetch failures")
	cmd.Flags().Bool("render", false,
		"Render JavaScript with a headless browser when the static fetch yields a near-empty page")

	// External measurement flags
	cmd.Flags().Bool("no-external", false,
		"Skip PageSpeed Insights and W3C validator calls (uses documented fallback scores)")
	cmd.Flags().String("pagespeed-key", "",
		"PageSpeed Insights API key (optional, raises the rate limit)")

	// Scoring flags
	cmd.Flags().Int("reference-year", 0,
		"Reference year for content-currency checks (default: current year)")

	// Batch grading flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent gradings")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .aigrader in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runGradeCmd executes the grade command.
func runGradeCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGrade(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.Render, err = cmd.Flags().GetBool("render")
	if err != nil {
		return nil, err
	}

	cfg.SkipExternal, err = cmd.Flags().GetBool("no-external")
	if err != nil {
		return nil, err
	}

	cfg.PageSpeedAPIKey, err = cmd.Flags().GetString("pagespeed-key")
	if err != nil {
		return nil, err
	}

	cfg.ReferenceYear, err = cmd.Flags().GetInt("reference-year")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		fileConfig, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		fileConfig.Apply(cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save grade history using the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (target URLs)
	cfg.Targets = args

	return cfg, nil
}

// runGrade executes the grading run.
func runGrade(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Validate all target URLs before opening the database
	for _, target := range cfg.Targets {
		if _, err := fetch.ValidateURL(target); err != nil {
			return fmt.Errorf("invalid target URL %q: %w", target, err)
		}
	}

	logger.Info("starting grading run",
		"targets", cfg.Targets,
		"render", cfg.Render,
		"skipExternal", cfg.SkipExternal,
		"batchSize", cfg.BatchSize,
	)

	// Open history database
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	// The aggregator is shared by every pipeline; building it once also
	// surfaces weight problems before any network traffic.
	aggregator, err := score.NewAggregator(cfg.Weights)
	if err != nil {
		return fmt.Errorf("invalid category weights: %w", err)
	}

	// Use batch processor for concurrent grading if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchGrade(ctx, cfg, httpClient, aggregator, db, logger)
	}

	// Single target or sequential grading
	return runSequentialGrade(ctx, cfg, httpClient, aggregator, db, logger)
}

// runSequentialGrade grades targets one at a time.
// Each target gets a full pipeline ending in a report step, so the report
// is written as soon as the grade is ready.
func runSequentialGrade(ctx context.Context, cfg *config.Config, httpClient *http.Client, aggregator *score.Aggregator, db *database.HistoryDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		output, closeOutput, err := openReportOutput(cfg)
		if err != nil {
			return err
		}
		writer := buildReportWriter(cfg, output)

		p := createPipeline(cfg, httpClient, aggregator, logger, db, writer)

		fmt.Fprintf(os.Stderr, "Grading %s...\n", target)
		startTime := time.Now()

		state := pipeline.NewState(target)
		if err := p.Execute(ctx, state); err != nil {
			logger.Error("grading failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Grade error for %s: %v\n", target, err)
			closeOutput()
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Grading completed in %s\n\n", elapsed.Round(time.Millisecond))
		closeOutput()
	}

	return nil
}

// runBatchGrade grades multiple targets concurrently using BatchProcessor.
// Reports are written in input order after the batch completes so output
// from concurrent gradings never interleaves.
func runBatchGrade(ctx context.Context, cfg *config.Config, httpClient *http.Client, aggregator *score.Aggregator, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch grading of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			// Reporting happens after the batch completes, so the
			// factory pipeline ends at persistence.
			return createPipeline(cfg, httpClient, aggregator, logger, db, nil)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := bp.ProcessBatch(ctx, cfg.Targets)
	if err != nil {
		return err
	}

	for i, result := range results {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(results), result.URL)

		if result.Err != nil {
			logger.Error("grading failed", "target", result.URL, "error", result.Err)
			fmt.Fprintf(os.Stderr, "Grade error for %s: %v\n", result.URL, result.Err)
			continue
		}

		if err := outputReport(cfg, result.Report); err != nil {
			logger.Error("report failed", "target", result.URL, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch grading completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// createPipeline assembles the grading pipeline for the current config.
// When writer is nil, the pipeline ends at the persistence step and the
// caller is responsible for report output.
func createPipeline(cfg *config.Config, httpClient *http.Client, aggregator *score.Aggregator, logger *slog.Logger, db *database.HistoryDB, writer report.Writer) *pipeline.Pipeline {
	staticOpts := []fetch.StaticFetcherOption{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithRetry(cfg.MaxRetries, cfg.RetryDelay),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.FileConfig != nil && len(cfg.FileConfig.Headers) > 0 {
		staticOpts = append(staticOpts, fetch.WithHeaders(cfg.FileConfig.Headers))
	}
	static := fetch.NewStaticFetcher(httpClient, staticOpts...)

	fetchOpts := []pipeline.FetchStepOption{
		pipeline.WithFetchLogger(logger),
	}
	if cfg.Render {
		renderer := fetch.NewBrowserFetcher(
			fetch.WithBrowserUserAgent(cfg.UserAgent),
			fetch.WithBrowserTimeout(cfg.Timeout),
		)
		fetchOpts = append(fetchOpts, pipeline.WithRenderer(renderer))
	}

	// nil measurer makes the performance step fall back to documented
	// default scores, keeping offline runs deterministic.
	var measurer pipeline.Measurer
	if !cfg.SkipExternal {
		clientOpts := []performance.ClientOption{
			performance.WithUserAgent(cfg.UserAgent),
			performance.WithLogger(logger),
		}
		if cfg.PageSpeedAPIKey != "" {
			clientOpts = append(clientOpts, performance.WithAPIKey(cfg.PageSpeedAPIKey))
		}
		measurer = performance.NewClient(httpClient, clientOpts...)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewFetchStep(static, fetchOpts...),
		pipeline.NewRobotsStep(httpClient),
		pipeline.NewPerformanceStep(measurer),
		pipeline.NewAnalyzeStep(analyzer.NewRunner(logger), cfg.EffectiveReferenceYear()),
		pipeline.NewAggregateStep(aggregator),
		pipeline.NewPersistStep(db, logger),
	)
	if writer != nil {
		p.AddStep(pipeline.NewReportStep(writer))
	}

	return p
}

// outputReport writes the grade report in the requested format.
func outputReport(cfg *config.Config, gradeReport *model.GradeReport) error {
	output, closeOutput, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := buildReportWriter(cfg, output)
	_, err = writer.Write(gradeReport)
	return err
}

// openReportOutput opens the report destination: the configured file, or
// stdout. The returned close function is a no-op for stdout.
func openReportOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports are written with owner-only permissions because graded
	// pages may be internal or pre-release.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// buildReportWriter selects the report writer for the configured format.
func buildReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
