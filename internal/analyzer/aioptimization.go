package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// Paragraph chunk sizing. AI retrieval systems consume content in chunks;
// paragraphs inside this word range embed and retrieve well.
const (
	minChunkWords = 50
	maxChunkWords = 150
)

// Long-form thresholds used by the Q&A metric. Long, well-sectioned pages
// are valuable to AI systems even without explicit questions.
const (
	longFormWordCount  = 1500
	longFormH2Sections = 5
)

// AIOptimizationAnalyzer grades how well content is structured for AI
// extraction: chunk sizing, Q&A coverage, entity and factual density,
// readability, structural markup, and lexical diversity.
type AIOptimizationAnalyzer struct{}

// NewAIOptimizationAnalyzer creates the AI optimization analyzer.
func NewAIOptimizationAnalyzer() *AIOptimizationAnalyzer {
	return &AIOptimizationAnalyzer{}
}

// Category implements Analyzer.
func (a *AIOptimizationAnalyzer) Category() model.Category {
	return model.CategoryAIOptimization
}

// Analyze implements Analyzer.
func (a *AIOptimizationAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	chunk := analyzeChunkability(snap)
	readability := analyzeReadability(snap.Text, snap.WordCount)

	result.SetScore("chunkability", chunk.score)
	result.SetScore("qa_format", analyzeQAFormat(snap))
	result.SetScore("entity_recognition", analyzeEntityDensity(snap))
	result.SetScore("factual_density", analyzeFactualDensity(snap))
	result.SetScore("semantic_clarity", readability.Score)
	result.SetScore("content_structure", analyzeContentStructure(snap))
	result.SetScore("contextual_relevance", analyzeLexicalDiversity(snap))

	a.addFindings(result, snap, chunk, readability)
	a.addRecommendations(result)
	return result
}

// chunkabilityDetail carries the paragraph breakdown used in findings.
type chunkabilityDetail struct {
	score    float64
	ideal    int
	tooShort int
	tooLong  int
	total    int
}

// analyzeChunkability scores the fraction of paragraphs sized for AI
// chunk processing.
func analyzeChunkability(snap *model.PageSnapshot) chunkabilityDetail {
	d := chunkabilityDetail{total: len(snap.Paragraphs)}
	if d.total == 0 {
		return d
	}

	for _, p := range snap.Paragraphs {
		wc := countWords(p)
		switch {
		case wc < minChunkWords:
			d.tooShort++
		case wc > maxChunkWords:
			d.tooLong++
		default:
			d.ideal++
		}
	}

	d.score = round(float64(d.ideal) / float64(d.total) * 100)
	return d
}

// analyzeQAFormat scores question coverage with content-type awareness.
// Encyclopedic long-form content scores well without explicit questions;
// short-form content is expected to answer questions directly.
func analyzeQAFormat(snap *model.PageSnapshot) float64 {
	if snap.Text == "" {
		return 0
	}

	questions := countQuestions(snap.Text)
	longForm := snap.WordCount > longFormWordCount && snap.HeadingCount(2) >= longFormH2Sections

	if longForm {
		switch {
		case questions == 0:
			return 70
		case questions < 5:
			return 80
		case questions < 20:
			return 90
		default:
			return 95
		}
	}

	if questions == 0 {
		return 5
	}

	wc := snap.WordCount
	if wc < 1 {
		wc = 1
	}
	perHundred := float64(questions) / float64(wc) * 100

	switch {
	case perHundred >= 2 && perHundred <= 5:
		return 100
	case perHundred < 2:
		return round(clamp(perHundred*50, 0, 90))
	default:
		return round(clamp(100-(perHundred-5)*10, 60, 100))
	}
}

// analyzeEntityDensity scores the density of extractable entities
// (proper nouns, numbers, URLs, emails) per 100 words.
func analyzeEntityDensity(snap *model.PageSnapshot) float64 {
	if snap.Text == "" {
		return 0
	}

	wc := snap.WordCount
	if wc < 1 {
		wc = 1
	}
	density := float64(countEntities(snap.Text)) / float64(wc) * 100
	return round1(clamp(density*10, 0, 100))
}

// analyzeFactualDensity scores the density of factual markers (meaningful
// numbers, years, tagged statistics, currency amounts) per 100 words.
// The sweet spot is 3-12 facts per 100 words; below is too vague, far
// above reads like a data dump.
func analyzeFactualDensity(snap *model.PageSnapshot) float64 {
	if snap.Text == "" || snap.WordCount < 50 {
		return 0
	}

	factsPer100 := float64(countFacts(snap.Text)) / float64(snap.WordCount) * 100

	var score float64
	switch {
	case factsPer100 >= 3 && factsPer100 <= 12:
		score = 100
	case factsPer100 < 3:
		score = factsPer100 / 3 * 100
	default:
		score = clamp(100-(factsPer100-12)*3, 60, 100)
	}

	return round2(score)
}

// analyzeContentStructure scores the structural markup AI parsers rely on:
// lists, tables, headings, and semantic HTML elements.
func analyzeContentStructure(snap *model.PageSnapshot) float64 {
	score := 100.0

	if snap.ListCount == 0 {
		score -= 20
	}
	if snap.TableCount == 0 {
		score -= 20
	}
	if snap.TotalHeadings() < 3 {
		score -= 30
	}
	if !snap.HasSemanticElements {
		score -= 30
	}

	return clamp(score, 0, 100)
}

// analyzeLexicalDiversity scores the unique-to-total word ratio.
// 40-60% is the sweet spot: lower reads as repetitive, much higher often
// means disjointed or keyword-stuffed text.
func analyzeLexicalDiversity(snap *model.PageSnapshot) float64 {
	words := strings.Fields(strings.ToLower(snap.Text))
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words)) * 100

	var score float64
	switch {
	case diversity >= 40 && diversity <= 60:
		score = 100
	case diversity < 40:
		score = diversity / 40 * 100
	default:
		score = clamp(100-(diversity-60), 50, 100)
	}

	return round(score)
}

// addFindings turns the scores into human-readable observations.
func (a *AIOptimizationAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot, chunk chunkabilityDetail, readability ReadabilityResult) {
	// A near-empty text extraction usually means a client-rendered app,
	// which is the single most important thing to tell the user.
	if snap.WordCount < 100 && !snap.Rendered {
		result.AddFinding(fmt.Sprintf("Only %d words extracted: the site appears to render content with JavaScript, so AI crawlers may see almost nothing", snap.WordCount))
		result.AddFinding("Consider server-side rendering or static generation, or re-run the grade with rendering enabled")
	}

	scores := result.Scores

	if chunk.total == 0 {
		result.AddFinding("No paragraph tags found: content structure is unclear to AI systems")
	} else {
		switch {
		case scores["chunkability"] < 50:
			result.AddFinding(fmt.Sprintf("Poor paragraph sizing: %d of %d paragraphs in the 50-150 word range (%d too short, %d too long)", chunk.ideal, chunk.total, chunk.tooShort, chunk.tooLong))
		case scores["chunkability"] < 70:
			result.AddFinding(fmt.Sprintf("Paragraph sizing needs work: %d of %d paragraphs optimal (%d too short, %d too long)", chunk.ideal, chunk.total, chunk.tooShort, chunk.tooLong))
		default:
			result.AddFinding(fmt.Sprintf("%d of %d paragraphs are optimally sized for AI chunk processing", chunk.ideal, chunk.total))
		}
	}

	questions := countQuestions(snap.Text)
	if scores["qa_format"] < 30 {
		result.AddFinding(fmt.Sprintf("Limited Q&A format: only %d questions in %d words; AI systems favor content that answers questions directly", questions, snap.WordCount))
	} else if scores["qa_format"] >= 70 && snap.WordCount > longFormWordCount {
		result.AddFinding(fmt.Sprintf("Well-structured long-form content with %d questions across %d words", questions, snap.WordCount))
	}

	switch {
	case scores["entity_recognition"] >= 80:
		result.AddFinding(fmt.Sprintf("High entity density (%.1f%%): rich in names, dates, and specifics AI can extract", scores["entity_recognition"]))
	case scores["entity_recognition"] >= 60:
		result.AddFinding(fmt.Sprintf("Moderate entity density (%.1f%%): add more specific names, dates, and data points", scores["entity_recognition"]))
	default:
		result.AddFinding(fmt.Sprintf("Low entity density (%.1f%%): content is too generic for reliable entity extraction", scores["entity_recognition"]))
	}

	switch readability.Kind {
	case ReadabilityInsufficientText:
		result.AddFinding(fmt.Sprintf("Readability could not be measured: only %d words of running text", snap.WordCount))
	case ReadabilityTooFewSentences:
		result.AddFinding("Readability unreliable: fewer than three usable sentences found")
	case ReadabilityDegraded:
		result.AddFinding("Readability measurement degraded: text structure is unusual, neutral score substituted")
	case ReadabilityComputed:
		switch {
		case readability.Score < 60:
			result.AddFinding(fmt.Sprintf("Readability score %.0f%%: content is likely too complex; aim for Flesch 60-70 (8th-9th grade)", readability.Score))
		case readability.Score < 70:
			result.AddFinding(fmt.Sprintf("Readability score %.0f%%: slightly below the 60-70 Flesch target band", readability.Score))
		default:
			result.AddFinding(fmt.Sprintf("Readability score %.0f%%: clear and accessible for AI processing", readability.Score))
		}
	}

	if scores["factual_density"] < 30 {
		result.AddFinding(fmt.Sprintf("Very low factual density (%.0f%%): add specific data, statistics, and dates AI can cite", scores["factual_density"]))
	} else if scores["factual_density"] > 90 {
		result.AddFinding(fmt.Sprintf("Excellent factual density (%.0f%%): rich in citable data", scores["factual_density"]))
	}

	if scores["content_structure"] < 60 {
		result.AddFinding("Poor structure: lacking lists, tables, or semantic HTML; unstructured content is hard for AI to parse")
	}

	if scores["contextual_relevance"] < 60 {
		result.AddFinding(fmt.Sprintf("Poor lexical diversity (%.0f%%): too much repetition or overly generic wording", scores["contextual_relevance"]))
	}
}

// addRecommendations attaches prioritized suggestions based on the
// weakest metrics.
func (a *AIOptimizationAnalyzer) addRecommendations(result *model.MetricResult) {
	scores := result.Scores

	if scores["semantic_clarity"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Improve semantic structure for AI processing",
			"Use proper heading hierarchy (H1-H6)",
			"Structure content with clear sections",
			"Use descriptive link text",
			"Add structured data for key information",
		))
	}

	if scores["qa_format"] < 30 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Optimize content for answer potential",
			"Structure content with a clear Q&A format",
			"Add FAQ sections with direct answers",
			"Use bullet points and numbered lists",
			"Include data and statistics",
		))
	}

	if scores["chunkability"] < 50 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Improve content chunkability",
			"Break long paragraphs into 50-150 word chunks",
			"Use clear section breaks",
			"Add subheadings every 200-300 words",
			"Use lists for scannable content",
		))
	}
}
