package analyzer

import (
	"context"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// CrawlabilityAnalyzer grades how easily automated agents can reach and
// read the page: robots directives, bot blocking, delivery status, and
// JavaScript dependence.
type CrawlabilityAnalyzer struct{}

// NewCrawlabilityAnalyzer creates the technical crawlability analyzer.
func NewCrawlabilityAnalyzer() *CrawlabilityAnalyzer {
	return &CrawlabilityAnalyzer{}
}

// Category implements Analyzer.
func (a *CrawlabilityAnalyzer) Category() model.Category {
	return model.CategoryTechnicalCrawlability
}

// Analyze implements Analyzer.
func (a *CrawlabilityAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	result.SetScore("robots_access", analyzeRobotsAccess(snap))
	result.SetScore("bot_accessibility", analyzeBotAccessibility(snap))
	result.SetScore("content_delivery", analyzeContentDelivery(snap))
	result.SetScore("javascript_dependency", analyzeJavaScriptDependency(snap))
	result.SetScore("load_speed", in.Performance.PerformanceScore)

	a.addFindings(result, snap)
	a.addRecommendations(result)
	return result
}

// analyzeRobotsAccess penalizes meta robots directives that block
// indexing or link following.
func analyzeRobotsAccess(snap *model.PageSnapshot) float64 {
	score := 100.0
	robots := strings.ToLower(snap.RobotsMeta)
	if strings.Contains(robots, "noindex") {
		score -= 50
	}
	if strings.Contains(robots, "nofollow") {
		score -= 30
	}
	return clamp(score, 0, 100)
}

// analyzeBotAccessibility looks for blanket robots.txt disallows and
// on-page bot challenges.
func analyzeBotAccessibility(snap *model.PageSnapshot) float64 {
	score := 100.0
	if strings.Contains(strings.ToLower(snap.RobotsTxt), "disallow: /") {
		score -= 50
	}
	text := strings.ToLower(snap.Text)
	if strings.Contains(text, "captcha") || strings.Contains(text, "bot detection") {
		score -= 20
	}
	return clamp(score, 0, 100)
}

// analyzeContentDelivery scores the HTTP status of the final response.
func analyzeContentDelivery(snap *model.PageSnapshot) float64 {
	switch snap.StatusCode {
	case 200:
		return 100
	case 301, 302:
		return 80
	default:
		return 50
	}
}

// analyzeJavaScriptDependency uses the extracted word count as a proxy
// for how much content is available without executing scripts.
func analyzeJavaScriptDependency(snap *model.PageSnapshot) float64 {
	switch {
	case snap.WordCount > 100:
		return 100
	case snap.WordCount > 50:
		return 70
	default:
		return 40
	}
}

func (a *CrawlabilityAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot) {
	scores := result.Scores

	if scores["robots_access"] < 100 {
		result.AddFinding("Robots access may be restricted")
	}
	if scores["bot_accessibility"] < 100 {
		result.AddFinding("robots.txt or on-page challenges may block automated agents")
	}
	if scores["javascript_dependency"] < 70 {
		result.AddFinding("Page appears heavily dependent on JavaScript for content")
	}
	if scores["content_delivery"] < 100 {
		result.AddFinding("Page was not delivered with a direct 200 response")
	}
	_ = snap
}

func (a *CrawlabilityAnalyzer) addRecommendations(result *model.MetricResult) {
	scores := result.Scores

	if scores["robots_access"] < 100 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Review robots directives",
			"Remove noindex or nofollow from pages that should be discoverable",
			"Check robots.txt rules against the pages you want crawled",
		))
	}

	if scores["javascript_dependency"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Reduce JavaScript dependency",
			"Render primary content server-side or statically",
			"Ensure critical text is present in the initial HTML response",
		))
	}
}
