package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/aigrader/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.GradeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOverview(md, report)
	w.writeCategories(md, report)
	w.writeRecommendations(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with grading information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.GradeReport) {
	md.H1("AI Readiness Report")
	md.PlainText("")

	fetchMode := "static"
	if report.Rendered {
		fetchMode = "rendered (headless browser)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Graded At", report.GradedAt.Format("2006-01-02 15:04:05 MST")},
			{"HTTP Status", strconv.Itoa(report.StatusCode)},
			{"Fetch Mode", fetchMode},
			{"Overall Score", fmt.Sprintf("**%.0f / 100**", report.OverallScore)},
			{"Page Health", fmt.Sprintf("%d / 100", report.CombinedPerformanceScore)},
			{"Status", report.StatusText},
		},
	})
	md.PlainText("")
}

// writeOverview writes the category score table, pie chart, and an alert
// matching the overall readiness band.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.GradeReport) {
	md.H2("Category Scores")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, []string{
			c.DisplayName,
			fmt.Sprintf("%.1f", c.Score),
			fmt.Sprintf("%.0f%%", c.Weight*100),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score", "Weight"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart showing each category's
// weighted contribution to the overall score.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.GradeReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Weighted Score Contribution"),
		piechart.WithShowData(true),
	)

	plotted := false
	for _, c := range report.Categories {
		contribution := uint64(c.Score * c.Weight)
		if contribution == 0 {
			continue
		}
		chart.LabelAndIntValue(c.DisplayName, contribution)
		plotted = true
	}
	if !plotted {
		return
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the readiness band.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.GradeReport) {
	switch report.Status {
	case model.StatusExcellent:
		md.Tipf("This page is well prepared for AI search: overall score %.0f.", report.OverallScore)
	case model.StatusGood:
		md.Notef("This page is in good shape with room for improvement: overall score %.0f.", report.OverallScore)
	case model.StatusNeedsImprovement:
		md.Importantf("This page needs work before AI systems can use it well: overall score %.0f.", report.OverallScore)
	default:
		md.Cautionf("This page has critical AI readiness problems: overall score %.0f.", report.OverallScore)
	}
	md.PlainText("")
}

// writeCategories writes a section per category: metric table and findings.
func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, report *model.GradeReport) {
	for _, c := range report.Categories {
		md.H2(c.DisplayName)
		md.PlainText("")

		if c.Result == nil || len(c.Result.Scores) == 0 {
			md.PlainText("No metrics computed for this category.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(c.Result.Scores))
		for _, metric := range sortedMetricKeys(c.Result.Scores) {
			rows = append(rows, []string{
				metric,
				fmt.Sprintf("%.1f", c.Result.Scores[metric]),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Score"},
			Rows:   rows,
		})
		md.PlainText("")

		if len(c.Result.Findings) > 0 {
			md.PlainText("Findings:")
			md.PlainText("")
			md.BulletList(c.Result.Findings...)
			md.PlainText("")
		}
	}
}

// writeRecommendations writes all recommendations grouped by priority,
// highest first.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.GradeReport) {
	md.H2("Recommendations")
	md.PlainText("")

	if report.TotalRecommendations() == 0 {
		md.PlainText("No recommendations. Keep doing what you are doing.")
		md.PlainText("")
		return
	}

	for _, p := range priorityOrder() {
		recs := recommendationsByPriority(report, p)
		if len(recs) == 0 {
			continue
		}

		md.H3(p.String())
		md.PlainText("")
		for _, rec := range recs {
			md.PlainTextf("**%s**", rec.Title)
			md.PlainText("")
			if len(rec.Details) > 0 {
				md.BulletList(rec.Details...)
				md.PlainText("")
			}
		}
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [aigrader](https://github.com/nao1215/aigrader)*")
}
