package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/aigrader/internal/model"
)

// HistoryDB provides SQLite-based storage for grade reports.
// It manages connection pooling and provides methods for saving and
// querying grading history.
//
// Design decision: We use a single database file for all graded URLs
// rather than one file per site. This makes cross-site queries and
// backup/restore operations trivial.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "aigrader.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers gain little here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Grade reports store complete grading results as JSON plus
	-- denormalized metadata for cheap listing and comparison.
	CREATE TABLE IF NOT EXISTS grade_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		graded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		overall_score REAL NOT NULL,
		status TEXT NOT NULL,
		category_scores TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON grade_reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_graded_at ON grade_reports(graded_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport saves a complete grade report.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.GradeReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	scoresJSON, err := json.Marshal(report.CategoryScores())
	if err != nil {
		return fmt.Errorf("failed to serialize category scores: %w", err)
	}

	query := `
	INSERT INTO grade_reports (url, graded_at, overall_score, status, category_scores, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.URL,
		report.GradedAt.UTC().Format("2006-01-02 15:04:05"),
		report.OverallScore,
		report.StatusText,
		string(scoresJSON),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save grade report: %w", err)
	}

	return nil
}

// GetLatestReport retrieves the most recent grade report for a URL.
// Returns nil without error when the URL has never been graded.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context, url string) (*model.GradeReport, error) {
	reports, err := hdb.GetRecentReports(ctx, url, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return reports[0], nil
}

// GetRecentReports retrieves up to limit reports for a URL, newest first.
func (hdb *HistoryDB) GetRecentReports(ctx context.Context, url string, limit int) ([]*model.GradeReport, error) {
	query := `
	SELECT report_json FROM grade_reports
	WHERE url = ?
	ORDER BY graded_at DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query grade history: %w", err)
	}
	defer rows.Close()

	var reports []*model.GradeReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.GradeReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ListGradedURLs returns every URL with at least one stored report.
func (hdb *HistoryDB) ListGradedURLs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM grade_reports
	ORDER BY url
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list graded urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// ReportMetadata contains summary information about a stored report.
// This is used for displaying history without loading full reports.
type ReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// URL is the graded page.
	URL string

	// GradedAt is when the grading was performed.
	GradedAt time.Time

	// OverallScore is the weighted overall score.
	OverallScore float64

	// Status is the readiness band label.
	Status string

	// CategoryScores maps category key to score.
	CategoryScores map[string]float64
}

// GetHistoryMetadata retrieves report metadata for a URL, newest first.
// This is more efficient than GetRecentReports when only metadata is needed.
func (hdb *HistoryDB) GetHistoryMetadata(ctx context.Context, url string) ([]ReportMetadata, error) {
	query := `
	SELECT id, url, graded_at, overall_score, status, category_scores
	FROM grade_reports
	WHERE url = ?
	ORDER BY graded_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var gradedAt string
		var scoresJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.URL, &gradedAt, &meta.OverallScore, &meta.Status, &scoresJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.GradedAt = parseTimestamp(gradedAt)

		if scoresJSON.Valid && scoresJSON.String != "" {
			if err := json.Unmarshal([]byte(scoresJSON.String), &meta.CategoryScores); err != nil {
				meta.CategoryScores = make(map[string]float64)
			}
		} else {
			meta.CategoryScores = make(map[string]float64)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a grade report by its database ID.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.GradeReport, error) {
	query := `
	SELECT report_json FROM grade_reports
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grade report: %w", err)
	}

	var report model.GradeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
