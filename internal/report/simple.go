package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables per-metric detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with per-metric scores.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.GradeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCategories(&sb, report)
	w.writeFindings(&sb, report)
	w.writeRecommendations(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with grading information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.GradeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       AI READINESS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URL:           %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Graded At:     %s\n", report.GradedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("HTTP Status:   %d\n", report.StatusCode))
	if report.Rendered {
		sb.WriteString("Fetch Mode:    rendered (headless browser)\n")
	} else {
		sb.WriteString("Fetch Mode:    static\n")
	}
	sb.WriteString(fmt.Sprintf("Overall Score: %.0f / 100 (%s)\n", report.OverallScore, report.StatusText))
	sb.WriteString(fmt.Sprintf("Page Health:   %d / 100 (speed, validity, accessibility)\n", report.CombinedPerformanceScore))
	sb.WriteString("\n")
}

// writeCategories writes the score breakdown with a simple bar per
// category.
func (w *SimpleWriter) writeCategories(sb *strings.Builder, report *model.GradeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CATEGORY SCORES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Categories {
		sb.WriteString(fmt.Sprintf("  %-25s %5.1f  %s\n", c.DisplayName, c.Score, scoreBar(c.Score)))

		if w.verbose && c.Result != nil {
			for _, metric := range sortedMetricKeys(c.Result.Scores) {
				sb.WriteString(fmt.Sprintf("      %-28s %5.1f\n", metric, c.Result.Scores[metric]))
			}
		}
	}
	sb.WriteString("\n")
}

// scoreBar renders a 20-character bar for a 0-100 score.
func scoreBar(score float64) string {
	filled := int(score / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}

// writeFindings writes all findings grouped by category.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.GradeReport) {
	hasFindings := false
	for _, c := range report.Categories {
		if c.Result != nil && len(c.Result.Findings) > 0 {
			hasFindings = true
			break
		}
	}
	if !hasFindings && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Categories {
		if c.Result == nil || len(c.Result.Findings) == 0 {
			if !w.showEmpty {
				continue
			}
		}

		sb.WriteString(fmt.Sprintf("[%s]\n", c.DisplayName))
		if c.Result == nil || len(c.Result.Findings) == 0 {
			sb.WriteString("  No findings\n\n")
			continue
		}
		for _, f := range c.Result.Findings {
			sb.WriteString(fmt.Sprintf("  * %s\n", f))
		}
		sb.WriteString("\n")
	}
}

// writeRecommendations writes recommendations grouped by priority,
// highest first.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.GradeReport) {
	if report.TotalRecommendations() == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, p := range priorityOrder() {
		recs := recommendationsByPriority(report, p)
		if len(recs) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("[%s]\n", p.String()))
		for _, rec := range recs {
			sb.WriteString(fmt.Sprintf("  * %s\n", rec.Title))
			for _, d := range rec.Details {
				sb.WriteString(fmt.Sprintf("    - %s\n", d))
			}
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by aigrader\n")
	sb.WriteString("https://github.com/nao1215/aigrader\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
