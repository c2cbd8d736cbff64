package analyzer

import (
	"context"
	"fmt"

	"github.com/nao1215/aigrader/internal/config"
	"github.com/nao1215/aigrader/internal/model"
)

// TechnicalSEOAnalyzer grades the classic on-page signals: heading
// hierarchy, meta tags, alt text coverage, link structure, and schema
// presence. The page_speed metric comes from the external performance
// measurement rather than anything in the HTML.
type TechnicalSEOAnalyzer struct{}

// NewTechnicalSEOAnalyzer creates the technical SEO analyzer.
func NewTechnicalSEOAnalyzer() *TechnicalSEOAnalyzer {
	return &TechnicalSEOAnalyzer{}
}

// Category implements Analyzer.
func (a *TechnicalSEOAnalyzer) Category() model.Category {
	return model.CategoryTechnicalSEO
}

// Analyze implements Analyzer.
func (a *TechnicalSEOAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	result.SetScore("heading_structure", analyzeHeadingStructure(snap))
	result.SetScore("meta_info", analyzeMetaInfo(snap))
	result.SetScore("alt_text", analyzeAltText(snap))
	result.SetScore("links", analyzeLinkStructure(snap))
	result.SetScore("schema_markup", analyzeSchemaMarkupPresence(snap))
	result.SetScore("page_speed", in.Performance.PerformanceScore)

	a.addFindings(result, snap)
	a.addRecommendations(result)
	return result
}

// analyzeHeadingStructure scores heading hierarchy. A page should have
// exactly one H1, at least three headings total, and H2 sections when
// there is more than one heading.
func analyzeHeadingStructure(snap *model.PageSnapshot) float64 {
	score := 100.0

	h1 := snap.HeadingCount(1)
	switch {
	case h1 == 0:
		score -= 50
	case h1 > 1:
		score -= 30
	}

	total := snap.TotalHeadings()
	if total < 3 {
		score -= 30
	}

	if snap.HeadingCount(2) == 0 && total > 1 {
		score -= 20
	}

	return clamp(score, 0, 100)
}

// analyzeMetaInfo scores the title and meta description against the
// ideal length ranges.
func analyzeMetaInfo(snap *model.PageSnapshot) float64 {
	score := 100.0

	switch {
	case snap.Title == "":
		score -= 40
	case len(snap.Title) < config.TitleMinLength:
		score -= 20
	case len(snap.Title) > config.TitleMaxLength:
		score -= 10
	}

	switch {
	case snap.MetaDescription == "":
		score -= 40
	case len(snap.MetaDescription) < config.MetaDescMinLength:
		score -= 20
	case len(snap.MetaDescription) > config.MetaDescMaxLength:
		score -= 10
	}

	return clamp(score, 0, 100)
}

// analyzeAltText scores the percentage of images carrying an alt
// attribute. A page without images scores 100.
func analyzeAltText(snap *model.PageSnapshot) float64 {
	if len(snap.Images) == 0 {
		return 100
	}

	withAlt := 0
	for _, img := range snap.Images {
		if img.HasAlt {
			withAlt++
		}
	}

	return round(float64(withAlt) / float64(len(snap.Images)) * 100)
}

// analyzeLinkStructure scores internal/external link balance and density.
func analyzeLinkStructure(snap *model.PageSnapshot) float64 {
	total := snap.Links.Total()
	if total == 0 {
		return 50
	}

	score := 100.0
	if len(snap.Links.Internal) == 0 {
		score -= 30
	}
	if len(snap.Links.External) == 0 {
		score -= 10
	}

	if snap.WordCount > 0 {
		density := float64(total) / float64(snap.WordCount) * 100
		if density < 1 {
			score -= 20
		} else if density > 5 {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

// analyzeSchemaMarkupPresence gives a coarse presence score; the schema
// category analyzer does the detailed grading.
func analyzeSchemaMarkupPresence(snap *model.PageSnapshot) float64 {
	var score float64
	if len(snap.Schema.JSONLD) > 0 {
		score += 50
	}
	if len(snap.Schema.Microdata) > 0 {
		score += 50
	}
	return score
}

// addFindings turns the scores into human-readable observations.
func (a *TechnicalSEOAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot) {
	scores := result.Scores

	if scores["heading_structure"] < 70 {
		result.AddFinding(fmt.Sprintf("Heading structure needs improvement: %d H1, %d headings total", snap.HeadingCount(1), snap.TotalHeadings()))
	}
	if scores["meta_info"] < 70 {
		result.AddFinding(fmt.Sprintf("Meta information is incomplete or unoptimized: title %d chars, description %d chars", len(snap.Title), len(snap.MetaDescription)))
	}
	if scores["schema_markup"] < 50 {
		result.AddFinding("Missing or incomplete schema markup")
	}
	if scores["alt_text"] < 90 {
		missing, decorative, descriptive := 0, 0, 0
		for _, img := range snap.Images {
			switch {
			case !img.HasAlt:
				missing++
			case img.Decorative:
				decorative++
			case img.MeaningfulAlt():
				descriptive++
			}
		}
		result.AddFinding(fmt.Sprintf("%d of %d images missing alt text (%d descriptive, %d marked decorative)", missing, len(snap.Images), descriptive, decorative))
	}
}

// addRecommendations attaches prioritized suggestions based on the
// weakest metrics.
func (a *TechnicalSEOAnalyzer) addRecommendations(result *model.MetricResult) {
	scores := result.Scores

	if scores["heading_structure"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Implement proper H1-H6 hierarchy with one H1 per page",
			"Ensure exactly one H1 tag per page",
			"Use H2 for major sections and H3 for subsections",
			"Include target keywords naturally in headings",
			"Maintain logical hierarchy (H1 then H2 then H3)",
		))
	}

	if scores["meta_info"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Create compelling meta descriptions and optimize title tags",
			"Write meta descriptions 150-160 characters long",
			"Optimize title tags to 30-60 characters",
			"Include target keywords naturally",
			"Make each meta description unique and action-oriented",
		))
	}

	if scores["alt_text"] < 90 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Add descriptive alt text to images",
			"Describe the image content and function in the alt attribute",
			`Use alt="" only for purely decorative images`,
		))
	}

	if scores["schema_markup"] < 50 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Implement structured data markup",
			"Add Organization schema",
			"Use Article schema for blog posts",
			"Implement FAQ schema for Q&A content",
			"Test with Google's Rich Results Test",
		))
	}
}
