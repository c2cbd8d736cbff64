package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/aigrader/internal/config"
	"github.com/nao1215/aigrader/internal/database"
	"github.com/nao1215/aigrader/internal/fetch"
	"github.com/nao1215/aigrader/internal/model"
	"github.com/spf13/cobra"
)

// Constants for score direction labels.
const (
	scoreDirectionImproved  = "improved"
	scoreDirectionDeclined  = "declined"
	scoreDirectionUnchanged = "unchanged"
)

// historyFetchLimit bounds how many reports are loaded for comparison.
// Comparisons only ever need the newest report plus one older one, but
// --since has to scan backwards through the history.
const historyFetchLimit = 100

// NewCompareCmd creates the compare command.
// This command compares grade results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [url]",
		Short: "Compare grade results with historical data",
		Long: `Compare displays differences between the current and previous grade results.

This command retrieves historical grade data from the database and shows:
- Overall and per-category score changes
- New recommendations that appeared since the last grading
- Resolved recommendations that are no longer raised

The comparison requires at least two grades in the database for the specified
URL. Use 'aigrader grade' to grade pages and save results.

Examples:
  # Compare latest two grades for a page
  aigrader compare https://example.com

  # List all grade history for a page
  aigrader compare --list https://example.com

  # Compare with a specific historical grade by ID
  aigrader compare --with-id 5 https://example.com

  # Compare grades since a specific date
  aigrader compare --since "2026-01-01" https://example.com

  # Output comparison in JSON format
  aigrader compare --json https://example.com

  # List all graded URLs in the database
  aigrader compare --list-urls`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List grade history for the specified URL")
	cmd.Flags().BoolP("list-urls", "L", false,
		"List all graded URLs in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific grade by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first grade after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-urls flag first (requires database but no URL)
	listURLs, err := cmd.Flags().GetBool("list-urls")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-urls)
	var targetURL string
	if !listURLs {
		if len(args) == 0 {
			return errors.New("URL is required (use --list-urls to see graded URLs)")
		}

		if _, err := fetch.ValidateURL(args[0]); err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		targetURL = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-urls flag
	if listURLs {
		return listGradedURLs(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listGradeHistory(ctx, db, targetURL)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, targetURL, withID, sinceDate, jsonOutput)
}

// listGradedURLs lists all URLs that have grade records in the database.
func listGradedURLs(ctx context.Context, db *database.HistoryDB) error {
	urls, err := db.ListGradedURLs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list URLs: %w", err)
	}

	if len(urls) == 0 {
		fmt.Println("No graded URLs found in the database.")
		fmt.Println("\nUse 'aigrader grade <url>' to grade a page.")
		return nil
	}

	fmt.Printf("Graded URLs (%d):\n\n", len(urls))
	for _, url := range urls {
		fmt.Printf("  • %s\n", url)
	}
	fmt.Println("\nUse 'aigrader compare --list <url>' to see grade history for a page.")

	return nil
}

// listGradeHistory lists all grade records for a specific URL.
func listGradeHistory(ctx context.Context, db *database.HistoryDB, url string) error {
	history, err := db.GetHistoryMetadata(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get grade history: %w", err)
	}

	if len(history) == 0 {
		fmt.Printf("No grade history found for %s\n", url)
		fmt.Println("\nUse 'aigrader grade' to grade this page.")
		return nil
	}

	fmt.Printf("Grade history for %s (%d grades):\n\n", url, len(history))
	fmt.Printf("  %-6s  %-20s  %-7s  %s\n", "ID", "Date", "Score", "Status")
	fmt.Println("  " + strings.Repeat("-", 55))

	for _, meta := range history {
		fmt.Printf("  %-6d  %-20s  %-7.0f  %s\n",
			meta.ID,
			meta.GradedAt.Format("2006-01-02 15:04:05"),
			meta.OverallScore,
			meta.Status,
		)
	}

	fmt.Println("\nUse 'aigrader compare <url>' to compare the latest two grades.")
	fmt.Println("Use 'aigrader compare --with-id <id> <url>' to compare with a specific grade.")

	return nil
}

// runComparison performs the actual comparison between grade reports.
func runComparison(ctx context.Context, db *database.HistoryDB, url string, withID int64, sinceDate string, jsonOutput bool) error {
	reports, err := db.GetRecentReports(ctx, url, historyFetchLimit)
	if err != nil {
		return fmt.Errorf("failed to get grade history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no grade history found for %s", url)
	}

	if len(reports) < 2 && withID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 grades are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	currentReport := reports[0]
	var previousReport *model.GradeReport

	if withID > 0 {
		// Find the report with the specified ID
		previousReport, err = db.GetReportByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get grade with ID %d: %w", withID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("grade with ID %d not found", withID)
		}
		// Validate that the grade ID belongs to the same URL
		if previousReport.URL != url {
			return fmt.Errorf("grade ID %d belongs to %s, not %s", withID, previousReport.URL, url)
		}
	} else if sinceDate != "" {
		// Parse the date and find the first (oldest) report at or after it
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted newest first, so iterate in reverse to find
		// the oldest report at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.GradedAt.After(parsedDate) || r.GradedAt.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no grades found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one grade found since %s; at least 2 grades are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous grade
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two grade reports.
type ComparisonResult struct {
	// URL is the graded page.
	URL string `json:"url"`

	// PreviousGrade contains metadata about the previous grade.
	PreviousGrade GradeMetadata `json:"previous_grade"`

	// CurrentGrade contains metadata about the current grade.
	CurrentGrade GradeMetadata `json:"current_grade"`

	// OverallDelta is the change in the overall score.
	OverallDelta float64 `json:"overall_delta"`

	// Direction is "improved", "declined", or "unchanged".
	Direction string `json:"direction"`

	// CategoryDeltas holds the per-category score changes in the
	// report's category order.
	CategoryDeltas []CategoryDelta `json:"category_deltas"`

	// NewRecommendations are raised by the current grade but not the previous.
	NewRecommendations []model.Recommendation `json:"new_recommendations,omitempty"`

	// ResolvedRecommendations were raised by the previous grade but are
	// no longer present.
	ResolvedRecommendations []model.Recommendation `json:"resolved_recommendations,omitempty"`

	// UnchangedCount is the number of recommendations present in both grades.
	UnchangedCount int `json:"unchanged_count"`
}

// GradeMetadata contains metadata about a grade for comparison display.
type GradeMetadata struct {
	// GradedAt is when the grading was performed.
	GradedAt time.Time `json:"graded_at"`

	// OverallScore is the weighted overall score, 0-100.
	OverallScore float64 `json:"overall_score"`

	// Status is the readiness band label.
	Status string `json:"status"`

	// Recommendations is the total number of recommendations.
	Recommendations int `json:"recommendations"`
}

// CategoryDelta describes the score change for a single category.
type CategoryDelta struct {
	// Key is the canonical category identifier.
	Key string `json:"key"`

	// DisplayName is the human-readable category name.
	DisplayName string `json:"display_name"`

	// Previous is the category score in the previous grade.
	Previous float64 `json:"previous"`

	// Current is the category score in the current grade.
	Current float64 `json:"current"`

	// Delta is Current minus Previous.
	Delta float64 `json:"delta"`
}

// compareReports compares two grade reports and generates a comparison result.
func compareReports(previous, current *model.GradeReport) *ComparisonResult {
	result := &ComparisonResult{
		URL: current.URL,
		PreviousGrade: GradeMetadata{
			GradedAt:        previous.GradedAt,
			OverallScore:    previous.OverallScore,
			Status:          previous.StatusText,
			Recommendations: previous.TotalRecommendations(),
		},
		CurrentGrade: GradeMetadata{
			GradedAt:        current.GradedAt,
			OverallScore:    current.OverallScore,
			Status:          current.StatusText,
			Recommendations: current.TotalRecommendations(),
		},
	}

	result.OverallDelta = current.OverallScore - previous.OverallScore
	switch {
	case result.OverallDelta > 0:
		result.Direction = scoreDirectionImproved
	case result.OverallDelta < 0:
		result.Direction = scoreDirectionDeclined
	default:
		result.Direction = scoreDirectionUnchanged
	}

	// Per-category deltas, in the current report's category order
	previousScores := previous.CategoryScores()
	for _, c := range current.Categories {
		result.CategoryDeltas = append(result.CategoryDeltas, CategoryDelta{
			Key:         c.Key,
			DisplayName: c.DisplayName,
			Previous:    previousScores[c.Key],
			Current:     c.Score,
			Delta:       c.Score - previousScores[c.Key],
		})
	}

	// Recommendation diffing by category and title
	previousRecs := recommendationSet(previous)
	currentRecs := recommendationSet(current)

	for key, rec := range currentRecs {
		if _, exists := previousRecs[key]; !exists {
			result.NewRecommendations = append(result.NewRecommendations, rec)
		}
	}
	for key, rec := range previousRecs {
		if _, exists := currentRecs[key]; !exists {
			result.ResolvedRecommendations = append(result.ResolvedRecommendations, rec)
		} else {
			result.UnchangedCount++
		}
	}

	return result
}

// recommendationSet builds a lookup of recommendations keyed by category
// and title for diffing between grades.
func recommendationSet(report *model.GradeReport) map[string]model.Recommendation {
	recs := make(map[string]model.Recommendation)
	for _, c := range report.Categories {
		if c.Result == nil {
			continue
		}
		for _, rec := range c.Result.Recommendations {
			recs[c.Key+"|"+rec.Title] = rec
		}
	}
	return recs
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Grade Comparison: %s\n", result.URL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nScore: %s\n", formatScoreDirection(result.Direction, result.OverallDelta))

	fmt.Printf("\nPrevious grade: %s  (%.0f, %s)\n",
		result.PreviousGrade.GradedAt.Format("2006-01-02 15:04:05"),
		result.PreviousGrade.OverallScore,
		result.PreviousGrade.Status)
	fmt.Printf("Current grade:  %s  (%.0f, %s)\n",
		result.CurrentGrade.GradedAt.Format("2006-01-02 15:04:05"),
		result.CurrentGrade.OverallScore,
		result.CurrentGrade.Status)

	fmt.Println("\nCategory Scores:")
	fmt.Printf("  %-25s  %-10s  %-10s  %-10s\n", "Category", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 60))
	for _, delta := range result.CategoryDeltas {
		fmt.Printf("  %-25s  %-10.1f  %-10.1f  %-10s\n",
			delta.DisplayName, delta.Previous, delta.Current, formatDelta(delta.Delta))
	}
	fmt.Println("  " + strings.Repeat("-", 60))
	fmt.Printf("  %-25s  %-10.0f  %-10.0f  %-10s\n", "Overall",
		result.PreviousGrade.OverallScore,
		result.CurrentGrade.OverallScore,
		formatDelta(result.OverallDelta))

	if len(result.NewRecommendations) > 0 {
		fmt.Printf("\nNew Recommendations (%d):\n", len(result.NewRecommendations))
		for _, rec := range result.NewRecommendations {
			fmt.Printf("  [+] [%s] %s\n", rec.PriorityText, rec.Title)
		}
	}

	if len(result.ResolvedRecommendations) > 0 {
		fmt.Printf("\nResolved Recommendations (%d):\n", len(result.ResolvedRecommendations))
		for _, rec := range result.ResolvedRecommendations {
			fmt.Printf("  [-] [%s] %s\n", rec.PriorityText, rec.Title)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d recommendations\n", result.UnchangedCount)
	}

	return nil
}

// formatScoreDirection formats the score change direction for display.
func formatScoreDirection(direction string, delta float64) string {
	switch direction {
	case scoreDirectionImproved:
		return fmt.Sprintf("IMPROVED (+%.0f points)", delta)
	case scoreDirectionDeclined:
		return fmt.Sprintf("DECLINED (%.0f points)", delta)
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta float64) string {
	if delta > 0 {
		return "+" + strconv.FormatFloat(delta, 'f', 1, 64)
	}
	if delta < 0 {
		return strconv.FormatFloat(delta, 'f', 1, 64)
	}
	return "0"
}
