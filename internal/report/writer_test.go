package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/aigrader/internal/model"
)

// sampleReport builds a report with two categories, findings, and
// recommendations at several priorities.
func sampleReport() *model.GradeReport {
	aiResult := model.NewMetricResult()
	aiResult.SetScore("content_chunkability", 50)
	aiResult.SetScore("qa_format", 70)
	aiResult.AddFinding("Content chunk sizing needs work")
	aiResult.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
		"Restructure content into question-and-answer format",
		"Add an FAQ section"))

	schemaResult := model.NewMetricResult()
	schemaResult.SetScore("schema_presence", 0)
	schemaResult.AddFinding("No structured data markup found")
	schemaResult.AddRecommendation(model.NewRecommendation(model.PriorityCritical,
		"Add structured data markup immediately"))

	return &model.GradeReport{
		URL:          "https://example.com/guide",
		GradedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		StatusCode:   200,
		OverallScore: 65,

		CombinedPerformanceScore: 88,
		Status:       model.StatusCritical,
		StatusText:   "critical",
		Categories: []model.CategoryResult{
			{
				Category:    model.CategoryAIOptimization,
				Key:         model.CategoryAIOptimization.Key(),
				DisplayName: model.CategoryAIOptimization.DisplayName(),
				Score:       60,
				Weight:      0.25,
				Result:      aiResult,
			},
			{
				Category:    model.CategorySchemaAnalysis,
				Key:         model.CategorySchemaAnalysis.Key(),
				DisplayName: model.CategorySchemaAnalysis.DisplayName(),
				Score:       0,
				Weight:      0.12,
				Result:      schemaResult,
			},
		},
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() = %d bytes, buffer has %d", n, buf.Len())
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("output missing trailing newline")
		}

		var decoded model.GradeReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.URL != "https://example.com/guide" {
			t.Errorf("URL = %q, want sample URL", decoded.URL)
		}
		if decoded.StatusText != "critical" {
			t.Errorf("StatusText = %q, want %q", decoded.StatusText, "critical")
		}
		if decoded.CombinedPerformanceScore != 88 {
			t.Errorf("CombinedPerformanceScore = %d, want 88", decoded.CombinedPerformanceScore)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty-printed output has no indentation")
		}
	})

	t.Run("full writer wraps with version", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.2.3")

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("Version = %q, want %q", wrapped.Version, "1.2.3")
		}
		if wrapped.Report == nil || wrapped.Report.URL != "https://example.com/guide" {
			t.Error("wrapped report missing or wrong URL")
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("contains all sections", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"AI READINESS REPORT",
			"CATEGORY SCORES",
			"FINDINGS",
			"RECOMMENDATIONS",
			"https://example.com/guide",
			"Overall Score: 65 / 100 (critical)",
			"Page Health:   88 / 100",
			"[CRITICAL]",
			"[HIGH]",
			"Add structured data markup immediately",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("critical recommendations come before high", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		critical := strings.Index(out, "[CRITICAL]")
		high := strings.Index(out, "[HIGH]")
		if critical < 0 || high < 0 || critical > high {
			t.Errorf("priority order wrong: critical at %d, high at %d", critical, high)
		}
	})

	t.Run("verbose includes metric scores", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "content_chunkability") {
			t.Error("verbose output missing metric names")
		}
	})
}

func TestScoreBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{100, "[####################]"},
		{50, "[##########..........]"},
		{0, "[....................]"},
	}

	for _, tt := range tests {
		if got := scoreBar(tt.score); got != tt.want {
			t.Errorf("scoreBar(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# AI Readiness Report",
		"## Category Scores",
		"## Recommendations",
		"`https://example.com/guide`",
		"Page Health",
		"88 / 100",
		"Add structured data markup immediately",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

// failWriter always returns an error, for MultiWriter error propagation.
type failWriter struct{}

func (failWriter) Write(_ *model.GradeReport) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all destinations", func(t *testing.T) {
		t.Parallel()
		var a, b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b))

		if _, err := mw.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("one of the destinations received no output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		mw := NewMultiWriter(failWriter{}, NewJSONWriter(&buf))

		if _, err := mw.Write(sampleReport()); err == nil {
			t.Fatal("Write() error = nil, want propagated error")
		}
		if buf.Len() != 0 {
			t.Error("writer after the failing one still ran")
		}
	})
}
