package analyzer

import (
	"math"
	"regexp"
	"strings"
)

// Shared text heuristics. The analyzers lean on cheap lexical signals
// rather than NLP models: the goal is a directionally correct grade that
// runs in milliseconds, not a linguistic analysis.

var (
	// capitalizedRe matches capitalized words, a proxy for proper nouns.
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

	// bareNumberRe matches standalone numbers.
	bareNumberRe = regexp.MustCompile(`\b\d+\b`)

	// urlRe matches http(s) URLs in running text.
	urlRe = regexp.MustCompile(`https?://\S+`)

	// emailRe matches email addresses.
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// copyrightYearRe matches copyright year notices stripped before
	// factual-density counting.
	copyrightYearRe = regexp.MustCompile(`(?i)(©\s*20\d{2}|\b(copyright|©)\s+20\d{2}\b)`)

	// listNumberRe matches list-item numbering like "1. " up to "10. ".
	listNumberRe = regexp.MustCompile(`\b([1-9]|10)\.\s`)

	// paginationRe matches navigation numbers like "page 3" or "step 2".
	paginationRe = regexp.MustCompile(`(?i)\b(page|step)\s+\d+\b`)

	// meaningfulNumberRe matches numbers with two or more digits,
	// optionally with decimals or a percent sign.
	meaningfulNumberRe = regexp.MustCompile(`\b\d{2,}\.?\d*%?\b`)

	// yearRe matches four-digit years from 1900 onward.
	yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// statisticRe matches numbers followed by a quantity word.
	statisticRe = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(percent|%|million|billion|thousand|dozen)\b`)

	// currencyRe matches currency-prefixed amounts.
	currencyRe = regexp.MustCompile(`[$€£¥]\s*\d+`)

	// percentStatRe matches explicit percentage statistics.
	percentStatRe = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(percent|%)\b`)

	// sentenceSplitRe splits running text on sentence terminators.
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
)

// countWords returns the number of whitespace-separated words.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// countQuestions returns the number of question marks in the text.
func countQuestions(text string) int {
	return strings.Count(text, "?")
}

// splitSentences splits text into trimmed non-empty sentences.
func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// averageSentenceLength returns the mean word count per sentence,
// or 0 when there are no sentences.
func averageSentenceLength(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range sentences {
		total += countWords(s)
	}
	return float64(total) / float64(len(sentences))
}

// containsAny reports whether lowered contains at least one of the needles.
// The caller is expected to pass already-lowercased text.
func containsAny(lowered string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}

// countOccurrences sums the occurrence counts of every needle in lowered.
func countOccurrences(lowered string, needles []string) int {
	total := 0
	for _, n := range needles {
		total += strings.Count(lowered, n)
	}
	return total
}

// countEntities approximates named-entity density: capitalized words,
// numbers, URLs, and email addresses.
func countEntities(text string) int {
	return len(capitalizedRe.FindAllString(text, -1)) +
		len(bareNumberRe.FindAllString(text, -1)) +
		len(urlRe.FindAllString(text, -1)) +
		len(emailRe.FindAllString(text, -1))
}

// countFacts counts factual markers after stripping numbers that carry no
// information: copyright years, list numbering, and pagination.
func countFacts(text string) int {
	cleaned := copyrightYearRe.ReplaceAllString(text, "")
	cleaned = listNumberRe.ReplaceAllString(cleaned, "")
	cleaned = paginationRe.ReplaceAllString(cleaned, "")

	return len(meaningfulNumberRe.FindAllString(cleaned, -1)) +
		len(yearRe.FindAllString(cleaned, -1)) +
		len(statisticRe.FindAllString(cleaned, -1)) +
		len(currencyRe.FindAllString(cleaned, -1))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round returns v rounded to the nearest integer as a float64.
func round(v float64) float64 {
	return math.Round(v)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
