package config

import (
	"math"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the scoring thresholds the analyzers were calibrated against;
// changing them shifts grades, so overrides should be deliberate.
const (
	// DefaultTimeout is the per-request timeout for fetching pages and
	// calling external APIs. 30 seconds accommodates slow origin servers
	// without hanging a batch run indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of retry attempts after a failed
	// fetch. Retries apply only to transient failures (network errors and
	// 5xx responses), never to 4xx client errors.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the pause between retry attempts. A fixed one
	// second delay is enough to ride out momentary network blips without
	// meaningfully slowing a run.
	DefaultRetryDelay = 1 * time.Second

	// DefaultBatchSize of 5 concurrent gradings balances throughput with
	// politeness toward graded sites and external APIs.
	DefaultBatchSize = 5

	// DefaultUserAgent identifies aigrader in HTTP requests. A descriptive
	// User-Agent lets site operators identify grader traffic in their logs.
	DefaultUserAgent = "aigrader/1.0 (+https://github.com/nao1215/aigrader)"

	// DefaultMaxBodySize limits the response body size to read.
	// 10MB covers even heavyweight pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "aigrader"
)

// Content thresholds shared by the analyzers. These are published as
// package constants so analyzers and tests agree on a single source.
const (
	// MinWordCount is the minimum word count for content to be considered
	// substantial. Pages below it score poorly on coverage.
	MinWordCount = 300

	// IdealWordCount is the word count at which coverage scoring maxes out
	// and Q&A scoring switches to long-form rules.
	IdealWordCount = 1500

	// TitleMinLength and TitleMaxLength bound the ideal <title> length.
	TitleMinLength = 30
	TitleMaxLength = 60

	// MetaDescMinLength and MetaDescMaxLength bound the ideal meta
	// description length.
	MetaDescMinLength = 150
	MetaDescMaxLength = 160
)

// Overall-score thresholds for the readiness status bands.
const (
	// ExcellentThreshold is the minimum overall score for "excellent".
	ExcellentThreshold = 90

	// GoodThreshold is the minimum overall score for "good".
	GoodThreshold = 80

	// NeedsImprovementThreshold is the minimum overall score for
	// "needs improvement"; anything below is "critical".
	NeedsImprovementThreshold = 70
)

// DefaultWeights returns the category weight table used to combine
// category scores into the overall score. The weights sum to 1.0.
//
// Design decision: This is a function returning a fresh map rather than a
// package-level variable so that config file overrides can never mutate
// the defaults shared by other runs.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"ai_optimization":        0.25,
		"mobile_optimization":    0.20,
		"technical_crawlability": 0.16,
		"schema_analysis":        0.12,
		"technical_seo":          0.10,
		"content_quality":        0.10,
		"eeat_signals":           0.07,
	}
}

// Config holds all configuration options for aigrader.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of URLs to grade.
	// Must contain at least one http(s) URL.
	Targets []string

	// Timeout is the per-request timeout for page fetches and external
	// API calls.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after a transient
	// fetch failure. Client errors (4xx) are never retried.
	MaxRetries int

	// RetryDelay is the pause between retry attempts.
	RetryDelay time.Duration

	// Render enables JavaScript rendering with a headless browser before
	// analysis. Slower but required for single-page applications whose
	// content only exists after script execution.
	Render bool

	// SkipExternal disables the PageSpeed Insights and W3C validator
	// calls. Performance metrics then use documented fallback values,
	// which makes runs fully deterministic and offline-capable.
	SkipExternal bool

	// PageSpeedAPIKey is an optional API key for the PageSpeed Insights
	// API. The API works without a key at a lower rate limit.
	PageSpeedAPIKey string

	// ReferenceYear anchors content-currency checks ("was this updated
	// recently"). Zero means use the current year. Tests inject a fixed
	// year for determinism.
	ReferenceYear int

	// Weights maps category keys to their contribution to the overall
	// score. Populated with DefaultWeights() and optionally overridden
	// by the config file. Must sum to 1.0.
	Weights map[string]float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent gradings when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .aigrader in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	// Populated by LoadConfigFile.
	FileConfig *File

	// JSONReport enables JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history database.
	// When set, grading results are saved for historical comparison.
	// When empty, results are not persisted.
	// Defaults to the XDG data directory (~/.local/share/aigrader on Linux).
	DBDir string

	// SaveToDB indicates whether to save grading results to the database.
	// Automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. 0 means use the default.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, weights).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  DefaultRetryDelay,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Weights:     DefaultWeights(),
	}
}

// EffectiveReferenceYear returns the configured reference year, or the
// current year when none was set.
func (c *Config) EffectiveReferenceYear() int {
	if c.ReferenceYear > 0 {
		return c.ReferenceYear
	}
	return time.Now().Year()
}

// XDGDataDir returns the XDG data directory for aigrader.
// On Linux: ~/.local/share/aigrader
// On macOS: ~/Library/Application Support/aigrader
// On Windows: %LOCALAPPDATA%\aigrader
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for aigrader.
// On Linux: ~/.config/aigrader
// On macOS: ~/Library/Application Support/aigrader
// On Windows: %APPDATA%\aigrader
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any grading begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to grade
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Retries must be non-negative; use 0 to disable retries
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	// RetryDelay must be non-negative
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	// BatchSize must be positive; zero would mean no grading
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// A report file holds exactly one report
	if c.ReportFile != "" && len(c.Targets) > 1 {
		return ErrReportFileMultipleTargets
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// Weights must cover every category and sum to 1.0
	if err := validateWeights(c.Weights); err != nil {
		return err
	}

	return nil
}

// validateWeights checks that the weight table sums to 1.0 within floating
// point tolerance and contains no negative entries.
func validateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return ErrInvalidWeights
	}

	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return ErrInvalidWeights
		}
		sum += w
	}

	if math.Abs(sum-1.0) > 1e-6 {
		return ErrInvalidWeights
	}

	return nil
}
