package model

import "testing"

func TestPriorityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority Priority
		want     string
	}{
		{name: "best practice", priority: PriorityBestPractice, want: "BEST PRACTICE"},
		{name: "quick win", priority: PriorityQuickWin, want: "QUICK WIN"},
		{name: "medium", priority: PriorityMedium, want: "MEDIUM"},
		{name: "high", priority: PriorityHigh, want: "HIGH"},
		{name: "critical", priority: PriorityCritical, want: "CRITICAL"},
		{name: "unknown value", priority: Priority(99), want: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.priority.String(); got != tt.want {
				t.Errorf("Priority.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLabelString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status StatusLabel
		want   string
	}{
		{name: "critical", status: StatusCritical, want: "critical"},
		{name: "needs improvement", status: StatusNeedsImprovement, want: "needs-improvement"},
		{name: "good", status: StatusGood, want: "good"},
		{name: "excellent", status: StatusExcellent, want: "excellent"},
		{name: "unknown value", status: StatusLabel(42), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.status.String(); got != tt.want {
				t.Errorf("StatusLabel.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category Category
		wantKey  string
		wantName string
	}{
		{CategoryAIOptimization, "ai_optimization", "AI Optimization"},
		{CategoryMobileOptimization, "mobile_optimization", "Mobile Optimization"},
		{CategoryTechnicalCrawlability, "technical_crawlability", "Technical Crawlability"},
		{CategorySchemaAnalysis, "schema_analysis", "Schema Analysis"},
		{CategoryTechnicalSEO, "technical_seo", "Technical SEO"},
		{CategoryContentQuality, "content_quality", "Content Quality"},
		{CategoryEEATSignals, "eeat_signals", "E-E-A-T Signals"},
	}

	for _, tt := range tests {
		t.Run(tt.wantKey, func(t *testing.T) {
			t.Parallel()

			if got := tt.category.Key(); got != tt.wantKey {
				t.Errorf("Category.Key() = %q, want %q", got, tt.wantKey)
			}
			if got := tt.category.DisplayName(); got != tt.wantName {
				t.Errorf("Category.DisplayName() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestAllCategoriesUnique(t *testing.T) {
	t.Parallel()

	categories := AllCategories()
	if len(categories) != 7 {
		t.Fatalf("AllCategories() returned %d categories, want 7", len(categories))
	}

	seen := make(map[string]bool)
	for _, c := range categories {
		key := c.Key()
		if seen[key] {
			t.Errorf("duplicate category key %q", key)
		}
		seen[key] = true
	}
}

func TestMetricResult(t *testing.T) {
	t.Parallel()

	t.Run("set score and add findings", func(t *testing.T) {
		t.Parallel()

		r := NewMetricResult()
		r.SetScore("content_chunkability", 75)
		r.AddFinding("2 of 4 paragraphs are chunk-sized")
		r.AddRecommendation(NewRecommendation(PriorityMedium, "Break up long paragraphs"))

		if got := r.Scores["content_chunkability"]; got != 75 {
			t.Errorf("score = %v, want 75", got)
		}
		if len(r.Findings) != 1 {
			t.Errorf("findings = %d, want 1", len(r.Findings))
		}
		if len(r.Recommendations) != 1 {
			t.Errorf("recommendations = %d, want 1", len(r.Recommendations))
		}
		if got := r.Recommendations[0].PriorityText; got != "MEDIUM" {
			t.Errorf("priority text = %q, want MEDIUM", got)
		}
	})
}

func TestPageSnapshotHelpers(t *testing.T) {
	t.Parallel()

	snap := &PageSnapshot{
		Headings: map[int][]string{
			1: {"Main Title"},
			2: {"Section A", "Section B"},
		},
		Images: []Image{
			{Src: "a.png", Alt: "diagram", HasAlt: true},
			{Src: "b.png", Alt: "", HasAlt: true, Decorative: true},
			{Src: "c.png", HasAlt: false},
		},
		Links: LinkSet{
			Internal: []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"},
			External: []string{"https://other.example/x", "https://other.example/y"},
		},
	}

	if got := snap.TotalHeadings(); got != 3 {
		t.Errorf("TotalHeadings() = %d, want 3", got)
	}
	if got := snap.HeadingCount(2); got != 2 {
		t.Errorf("HeadingCount(2) = %d, want 2", got)
	}
	if got := snap.Links.Total(); got != 5 {
		t.Errorf("Links.Total() = %d, want 5", got)
	}

	if !snap.Images[0].MeaningfulAlt() {
		t.Error("image with alt text should report meaningful alt")
	}
	if snap.Images[1].MeaningfulAlt() {
		t.Error("decorative image should not report meaningful alt")
	}
	if snap.Images[2].MeaningfulAlt() {
		t.Error("image without alt should not report meaningful alt")
	}
}

func TestGradeReportCategoryScores(t *testing.T) {
	t.Parallel()

	report := &GradeReport{
		Categories: []CategoryResult{
			{Key: "ai_optimization", Score: 80, Result: NewMetricResult()},
			{Key: "technical_seo", Score: 60, Result: NewMetricResult()},
		},
	}
	report.Categories[0].Result.AddRecommendation(NewRecommendation(PriorityHigh, "x"))

	scores := report.CategoryScores()
	if len(scores) != 2 {
		t.Fatalf("CategoryScores() returned %d entries, want 2", len(scores))
	}
	if scores["ai_optimization"] != 80 || scores["technical_seo"] != 60 {
		t.Errorf("unexpected scores: %v", scores)
	}
	if got := report.TotalRecommendations(); got != 1 {
		t.Errorf("TotalRecommendations() = %d, want 1", got)
	}
}

func TestPerformanceSnapshotCombinedScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap *PerformanceSnapshot
		want int
	}{
		{
			name: "fallback values",
			snap: NewFallbackPerformanceSnapshot(),
			// 75*0.4 + 80*0.3 + 90*0.3 = 81
			want: 81,
		},
		{
			name: "perfect scores",
			snap: &PerformanceSnapshot{PerformanceScore: 100, HTMLValidityScore: 100},
			// 100*0.4 + 100*0.3 + 90*0.3 = 97
			want: 97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.snap.CombinedScore(); got != tt.want {
				t.Errorf("CombinedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
