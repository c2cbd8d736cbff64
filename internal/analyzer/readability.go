package analyzer

import (
	"strings"
)

// ReadabilityKind classifies how a readability score was produced.
//
// Design decision: The computation can legitimately not happen (too little
// text) or run on degenerate input (no syllables after cleaning). Encoding
// the outcome explicitly lets callers phrase findings correctly instead of
// guessing from a magic score value.
type ReadabilityKind int

const (
	// ReadabilityComputed means the Flesch score was calculated normally.
	ReadabilityComputed ReadabilityKind = iota

	// ReadabilityInsufficientText means the page had too few words for
	// any meaningful readability measurement.
	ReadabilityInsufficientText

	// ReadabilityTooFewSentences means there were not enough usable
	// sentences for a reliable score.
	ReadabilityTooFewSentences

	// ReadabilityDegraded means the computation hit degenerate input
	// and a neutral score was substituted.
	ReadabilityDegraded
)

// ReadabilityResult holds a readability measurement and how it came about.
type ReadabilityResult struct {
	// Kind classifies the outcome.
	Kind ReadabilityKind

	// FleschEase is the Flesch Reading Ease value, only meaningful when
	// Kind is ReadabilityComputed. Typical prose lands between 30 and 80.
	FleschEase float64

	// Score is the 0-100 semantic clarity score derived from FleschEase
	// (or the substitute for non-computed kinds).
	Score float64
}

// minReadabilityWords is the minimum word count for any readability
// measurement.
const minReadabilityWords = 100

// minUsableSentences is the minimum number of usable sentences (longer
// than 10 characters) for a reliable score.
const minUsableSentences = 3

// analyzeReadability computes the semantic clarity score from running text.
//
// The target band is Flesch 60-70 (roughly 8th-9th grade): scores in the
// band map to 100, harder text scales down linearly, and much easier text
// is mildly penalized because oversimplified prose carries less extractable
// information.
func analyzeReadability(text string, wordCount int) ReadabilityResult {
	if text == "" || wordCount < minReadabilityWords {
		return ReadabilityResult{Kind: ReadabilityInsufficientText, Score: 0}
	}

	// URLs confuse both the sentence splitter and syllable counting.
	cleaned := urlRe.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	usable := 0
	for _, s := range splitSentences(cleaned) {
		if len(s) > 10 {
			usable++
		}
	}
	if usable < minUsableSentences {
		return ReadabilityResult{Kind: ReadabilityTooFewSentences, Score: 50}
	}

	ease, ok := fleschReadingEase(cleaned)
	if !ok {
		return ReadabilityResult{Kind: ReadabilityDegraded, Score: 50}
	}

	var score float64
	switch {
	case ease >= 60 && ease <= 70:
		score = 100
	case ease < 60:
		score = clamp((ease/60)*100, 0, 100)
	default:
		score = clamp(100-(ease-70), 50, 100)
	}

	return ReadabilityResult{
		Kind:       ReadabilityComputed,
		FleschEase: ease,
		Score:      round2(score),
	}
}

// fleschReadingEase computes the Flesch Reading Ease statistic:
//
//	206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
//
// The second return value is false when the text is too degenerate to
// measure (no words or no sentences after cleaning).
func fleschReadingEase(text string) (float64, bool) {
	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 0, false
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}
	if syllables == 0 {
		return 0, false
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))

	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, true
}

// countSyllables estimates syllables in a word by counting vowel groups,
// with the standard silent-e adjustment. Good enough for an aggregate
// statistic over hundreds of words.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return r < 'a' || r > 'z'
	}))
	if word == "" {
		return 0
	}

	isVowel := func(r byte) bool {
		return strings.IndexByte("aeiouy", r) >= 0
	}

	count := 0
	inGroup := false
	for i := 0; i < len(word); i++ {
		if isVowel(word[i]) {
			if !inGroup {
				count++
				inGroup = true
			}
		} else {
			inGroup = false
		}
	}

	// Silent trailing e.
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}

	if count == 0 {
		count = 1
	}
	return count
}
