package analyzer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/aigrader/internal/config"
	"github.com/nao1215/aigrader/internal/model"
)

// Intent and credibility marker phrases. All matching is done against
// lowercased text.
var (
	actionWords     = []string{"how to", "guide", "tutorial", "steps", "learn", "tips"}
	infoWords       = []string{"what is", "definition", "meaning", "about", "overview"}
	exampleWords    = []string{"example", "for instance"}
	updateWords     = []string{"updated", "published", "last modified", "revised"}
	authorWords     = []string{"author", "written by"}
	citationWords   = []string{"source:", "according to", "study", "research"}
	longTailMinLen  = 10
	longTailPhrase  = 3
	longTailWeight  = 20.0
)

// ContentQualityAnalyzer grades depth and usefulness of the content
// itself: keyword specificity, topical coverage, intent alignment,
// freshness signals, and natural language quality.
type ContentQualityAnalyzer struct{}

// NewContentQualityAnalyzer creates the content quality analyzer.
func NewContentQualityAnalyzer() *ContentQualityAnalyzer {
	return &ContentQualityAnalyzer{}
}

// Category implements Analyzer.
func (a *ContentQualityAnalyzer) Category() model.Category {
	return model.CategoryContentQuality
}

// Analyze implements Analyzer.
func (a *ContentQualityAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	result.SetScore("long_tail_keywords", analyzeLongTailKeywords(snap))
	result.SetScore("comprehensive_coverage", analyzeCoverage(snap))
	result.SetScore("user_intent", analyzeUserIntent(snap))
	result.SetScore("accuracy_currency", analyzeAccuracyCurrency(snap, in.ReferenceYear))
	result.SetScore("natural_language", analyzeNaturalLanguage(snap))

	a.addFindings(result, snap, in.ReferenceYear)
	a.addRecommendations(result)
	return result
}

// analyzeLongTailKeywords scores the density of specific multi-word
// phrases. Three-word windows longer than 10 characters count as
// long-tail candidates.
func analyzeLongTailKeywords(snap *model.PageSnapshot) float64 {
	if snap.Text == "" || snap.WordCount == 0 {
		return 0
	}

	words := strings.Fields(strings.ToLower(snap.Text))
	phrases := 0
	for i := 0; i+longTailPhrase <= len(words); i++ {
		phrase := strings.Join(words[i:i+longTailPhrase], " ")
		if len(phrase) > longTailMinLen {
			phrases++
		}
	}

	density := float64(phrases) / float64(snap.WordCount) * 100
	return round(clamp(density*longTailWeight, 0, 100))
}

// analyzeCoverage scores topical comprehensiveness: word count tiers plus
// bonuses for lists, tables, images, and headings.
func analyzeCoverage(snap *model.PageSnapshot) float64 {
	var score float64

	switch {
	case snap.WordCount >= config.IdealWordCount:
		score += 40
	case snap.WordCount >= config.MinWordCount:
		score += float64(snap.WordCount) / float64(config.IdealWordCount) * 40
	default:
		score += float64(snap.WordCount) / float64(config.MinWordCount) * 20
	}

	if snap.ListCount > 0 {
		score += 15
	}
	if snap.TableCount > 0 {
		score += 15
	}
	if len(snap.Images) > 0 {
		score += 15
	}

	switch total := snap.TotalHeadings(); {
	case total >= 5:
		score += 15
	case total >= 3:
		score += 10
	}

	return round(clamp(score, 0, 100))
}

// analyzeUserIntent scores how directly the content serves common search
// intents: actionable guidance, definitions, examples, and navigable
// structure.
func analyzeUserIntent(snap *model.PageSnapshot) float64 {
	lowered := strings.ToLower(snap.Text)
	var score float64

	if containsAny(lowered, actionWords) {
		score += 30
	}
	if containsAny(lowered, infoWords) {
		score += 30
	}
	if containsAny(lowered, exampleWords) {
		score += 20
	}
	if snap.TotalHeadings() >= 3 {
		score += 20
	}

	return clamp(score, 0, 100)
}

// analyzeAccuracyCurrency scores freshness and credibility markers:
// recent years, update indicators, author attribution, and citations.
func analyzeAccuracyCurrency(snap *model.PageSnapshot, referenceYear int) float64 {
	lowered := strings.ToLower(snap.Text)
	var score float64

	if hasRecentYear(snap.Text, referenceYear) {
		score += 30
	}
	if containsAny(lowered, updateWords) {
		score += 20
	}
	if containsAny(lowered, authorWords) {
		score += 20
	}
	if containsAny(lowered, citationWords) {
		score += 30
	}

	return clamp(score, 0, 100)
}

// hasRecentYear reports whether the text mentions the reference year or
// either of the two preceding years.
func hasRecentYear(text string, referenceYear int) bool {
	for year := referenceYear - 2; year <= referenceYear; year++ {
		if strings.Contains(text, strconv.Itoa(year)) {
			return true
		}
	}
	return false
}

// analyzeNaturalLanguage scores prose quality from average sentence
// length. 15-20 words per sentence reads naturally; far outside that
// range suggests either fragments or run-ons.
func analyzeNaturalLanguage(snap *model.PageSnapshot) float64 {
	if snap.WordCount < 50 {
		return 0
	}

	score := 70.0

	sentences := splitSentences(snap.Text)
	if len(sentences) > 0 {
		avg := averageSentenceLength(sentences)
		switch {
		case avg >= 15 && avg <= 20:
			score += 30
		case avg >= 10 && avg <= 25:
			score += 20
		default:
			score += 10
		}
	}

	return clamp(score, 0, 100)
}

// addFindings turns the scores into human-readable observations.
func (a *ContentQualityAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot, referenceYear int) {
	switch {
	case snap.WordCount < config.MinWordCount:
		result.AddFinding(fmt.Sprintf("Content is too short (%d words): at least %d words recommended", snap.WordCount, config.MinWordCount))
	case snap.WordCount < config.IdealWordCount:
		result.AddFinding(fmt.Sprintf("Content length (%d words) is below ideal (%d+ words for comprehensive coverage)", snap.WordCount, config.IdealWordCount))
	default:
		result.AddFinding(fmt.Sprintf("Good content length (%d words) provides comprehensive coverage", snap.WordCount))
	}

	var elements []string
	if snap.ListCount > 0 {
		elements = append(elements, fmt.Sprintf("%d lists", snap.ListCount))
	}
	if snap.TableCount > 0 {
		elements = append(elements, fmt.Sprintf("%d tables", snap.TableCount))
	}
	if len(snap.Images) > 0 {
		elements = append(elements, fmt.Sprintf("%d images", len(snap.Images)))
	}
	if total := snap.TotalHeadings(); total >= 5 {
		elements = append(elements, fmt.Sprintf("%d headings", total))
	}
	if len(elements) > 0 {
		result.AddFinding("Rich content with " + strings.Join(elements, ", "))
	} else {
		result.AddFinding("Content lacks variety: add lists, images, tables, and structured headings")
	}

	lowered := strings.ToLower(snap.Text)
	var intents []string
	if containsAny(lowered, actionWords) {
		intents = append(intents, "actionable guidance")
	}
	if containsAny(lowered, infoWords) {
		intents = append(intents, "informational content")
	}
	if containsAny(lowered, exampleWords) {
		intents = append(intents, "examples")
	}
	if len(intents) > 0 {
		result.AddFinding("Content addresses user intent with " + strings.Join(intents, ", "))
	} else {
		result.AddFinding("Content lacks clear user intent signals (how-to, definitions, examples)")
	}

	var credibility []string
	if hasRecentYear(snap.Text, referenceYear) {
		credibility = append(credibility, "recent dates")
	}
	if containsAny(lowered, updateWords) {
		credibility = append(credibility, "update timestamps")
	}
	if containsAny(lowered, authorWords) {
		credibility = append(credibility, "author attribution")
	}
	if containsAny(lowered, citationWords) {
		credibility = append(credibility, "citations")
	}
	switch {
	case len(credibility) >= 3:
		result.AddFinding("Strong credibility signals: " + strings.Join(credibility, ", "))
	case len(credibility) >= 1:
		result.AddFinding("Some credibility signals present (" + strings.Join(credibility, ", ") + "): add more for stronger trust")
	default:
		result.AddFinding("Missing credibility signals: add publication date, author info, and sources")
	}

	if sentences := splitSentences(snap.Text); len(sentences) > 0 {
		avg := averageSentenceLength(sentences)
		switch {
		case avg >= 15 && avg <= 20:
			result.AddFinding(fmt.Sprintf("Excellent sentence length (avg %.1f words/sentence)", avg))
		case avg >= 10 && avg <= 25:
			result.AddFinding(fmt.Sprintf("Acceptable sentence length (avg %.1f words/sentence): aim for 15-20", avg))
		default:
			result.AddFinding(fmt.Sprintf("Sentence length needs work (avg %.1f words/sentence): aim for 15-20", avg))
		}
	}
}

// addRecommendations attaches prioritized suggestions based on the
// weakest metrics.
func (a *ContentQualityAnalyzer) addRecommendations(result *model.MetricResult) {
	scores := result.Scores

	if scores["comprehensive_coverage"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Expand content to provide comprehensive topic coverage",
			"Aim for 1500+ words for pillar content",
			"Include background information and context",
			"Add step-by-step guides and how-tos",
			"Include examples and case studies",
			"Answer related questions and subtopics",
		))
	}

	if scores["user_intent"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Better align content with user search intent",
			"Analyze search intent for target keywords",
			"Include practical examples and advice",
			"Answer common user questions directly",
			"Match content format to intent (informational, transactional, etc.)",
		))
	}

	if scores["accuracy_currency"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Add credibility and freshness indicators",
			"Include publication and last updated dates",
			"Add author information and credentials",
			"Cite authoritative sources with links",
			"Include expert quotes and statistics",
		))
	}
}
