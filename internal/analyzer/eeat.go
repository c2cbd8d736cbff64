package analyzer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// E-E-A-T marker phrases, matched against lowercased text.
var (
	authorPatterns      = []string{"author", "written by", "by:", "posted by"}
	credentialPatterns  = []string{"phd", "md", "certified", "expert", "specialist", "professor", "dr."}
	experiencePatterns  = []string{"i have", "we have", "my experience", "our experience", "i worked"}
	caseStudyPatterns   = []string{"case study", "for example", "in our case", "we found that"}
	recognitionPatterns = []string{"award", "recognized", "featured in", "published in"}
	contactPatterns     = []string{"contact", "email", "@", "phone", "address"}
	trustCitations      = []string{"according to", "source:", "reference", "cited", "study shows"}
	authoritativeTLDs   = []string{".gov", ".edu", ".org"}
)

// EEATAnalyzer grades experience, expertise, authoritativeness, and trust
// signals: the credibility markers AI systems and search engines weigh when
// deciding whether content is worth citing.
type EEATAnalyzer struct{}

// NewEEATAnalyzer creates the E-E-A-T analyzer.
func NewEEATAnalyzer() *EEATAnalyzer {
	return &EEATAnalyzer{}
}

// Category implements Analyzer.
func (a *EEATAnalyzer) Category() model.Category {
	return model.CategoryEEATSignals
}

// Analyze implements Analyzer.
func (a *EEATAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	result.SetScore("expertise_experience", analyzeExpertise(snap))
	result.SetScore("authoritativeness", analyzeAuthoritativeness(snap))
	result.SetScore("trustworthiness", analyzeTrust(snap))
	result.SetScore("factual_accuracy", analyzeFactualAccuracy(snap, in.ReferenceYear))

	a.addFindings(result, snap)
	a.addRecommendations(result, snap)
	return result
}

// analyzeExpertise scores four expertise indicators at 25 points each:
// author attribution, credentials, first-person experience, and case
// studies.
func analyzeExpertise(snap *model.PageSnapshot) float64 {
	lowered := strings.ToLower(snap.Text)
	var score float64

	if containsAny(lowered, authorPatterns) {
		score += 25
	}
	if containsAny(lowered, credentialPatterns) {
		score += 25
	}
	if containsAny(lowered, experiencePatterns) {
		score += 25
	}
	if containsAny(lowered, caseStudyPatterns) {
		score += 25
	}

	return score
}

// analyzeAuthoritativeness scores external citation behavior: outbound
// links, links to authoritative domains, and recognition markers.
func analyzeAuthoritativeness(snap *model.PageSnapshot) float64 {
	var score float64

	external := len(snap.Links.External)
	if external > 0 {
		score += clamp(float64(external)*5, 0, 40)
	}

	if n := countAuthoritativeLinks(snap.Links.External); n > 0 {
		score += clamp(float64(n)*10, 0, 30)
	}

	if containsAny(strings.ToLower(snap.Text), recognitionPatterns) {
		score += 30
	}

	return clamp(score, 0, 100)
}

// countAuthoritativeLinks counts links pointing at .gov, .edu, or .org
// domains.
func countAuthoritativeLinks(links []string) int {
	n := 0
	for _, link := range links {
		if containsAny(link, authoritativeTLDs) {
			n++
		}
	}
	return n
}

// analyzeTrust scores transparency markers: HTTPS, contact information,
// privacy policy, about page, and citation density.
func analyzeTrust(snap *model.PageSnapshot) float64 {
	lowered := strings.ToLower(snap.Text)
	var score float64

	if strings.HasPrefix(snap.URL, "https://") {
		score += 20
	}
	if containsAny(lowered, contactPatterns) {
		score += 20
	}
	if strings.Contains(lowered, "privacy") {
		score += 15
	}
	if strings.Contains(lowered, "about") {
		score += 15
	}
	if n := countOccurrences(lowered, trustCitations); n > 0 {
		score += clamp(float64(n)*10, 0, 30)
	}

	return clamp(score, 0, 100)
}

// analyzeFactualAccuracy scores verifiability markers from a neutral base:
// recent year references, percentage statistics, and bracketed citations.
// Only years at or after referenceYear-2 count as a currency signal; a
// page full of decade-old dates is not current.
func analyzeFactualAccuracy(snap *model.PageSnapshot, referenceYear int) float64 {
	score := 50.0

	if hasRecentYear(snap.Text, referenceYear) {
		score += 20
	}

	if stats := len(percentStatRe.FindAllString(snap.Text, -1)); stats > 0 {
		score += clamp(float64(stats)*5, 0, 20)
	}

	if strings.Contains(snap.Text, "[") && strings.Contains(snap.Text, "]") {
		score += 10
	}

	return clamp(score, 0, 100)
}

// addFindings turns the scores into human-readable observations.
func (a *EEATAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot) {
	lowered := strings.ToLower(snap.Text)
	scores := result.Scores

	var expertise []string
	if containsAny(lowered, authorPatterns) {
		expertise = append(expertise, "author attribution")
	}
	if containsAny(lowered, credentialPatterns) {
		expertise = append(expertise, "professional credentials")
	}
	if containsAny(lowered, experiencePatterns) {
		expertise = append(expertise, "first-hand experience")
	}
	if containsAny(lowered, caseStudyPatterns) {
		expertise = append(expertise, "case studies")
	}

	switch {
	case scores["expertise_experience"] < 30:
		result.AddFinding(fmt.Sprintf("Very limited expertise signals: only %d of 4 indicators present", len(expertise)))
	case scores["expertise_experience"] < 60:
		result.AddFinding("Moderate expertise demonstration: found " + strings.Join(expertise, ", "))
	default:
		result.AddFinding(fmt.Sprintf("Strong expertise signals (%d/4): %s", len(expertise), strings.Join(expertise, ", ")))
	}

	external := len(snap.Links.External)
	authoritative := countAuthoritativeLinks(snap.Links.External)
	switch {
	case scores["authoritativeness"] < 30:
		result.AddFinding(fmt.Sprintf("Low authoritativeness: %d external links, %d to authoritative domains (.gov/.edu/.org)", external, authoritative))
	case scores["authoritativeness"] < 60:
		result.AddFinding(fmt.Sprintf("Moderate authoritativeness: %d external links (%d authoritative)", external, authoritative))
	default:
		result.AddFinding(fmt.Sprintf("Strong authoritativeness: %d external links, %d to trusted domains", external, authoritative))
	}

	var trust []string
	if strings.HasPrefix(snap.URL, "https://") {
		trust = append(trust, "HTTPS")
	}
	if containsAny(lowered, contactPatterns) {
		trust = append(trust, "contact information")
	}
	if strings.Contains(lowered, "privacy") {
		trust = append(trust, "privacy policy")
	}
	if strings.Contains(lowered, "about") {
		trust = append(trust, "about page")
	}
	if n := countOccurrences(lowered, trustCitations); n > 0 {
		trust = append(trust, strconv.Itoa(n)+" citations")
	}

	switch {
	case scores["trustworthiness"] < 50:
		if len(trust) == 0 {
			result.AddFinding("Limited trustworthiness signals: none of the 5 indicators detected")
		} else {
			result.AddFinding(fmt.Sprintf("Limited trustworthiness signals (%d/5): %s", len(trust), strings.Join(trust, ", ")))
		}
	case scores["trustworthiness"] < 70:
		result.AddFinding(fmt.Sprintf("Moderate trust signals (%d/5): %s", len(trust), strings.Join(trust, ", ")))
	default:
		result.AddFinding(fmt.Sprintf("Strong trustworthiness (%d/5): %s", len(trust), strings.Join(trust, ", ")))
	}

	if scores["factual_accuracy"] < 50 {
		result.AddFinding("Low factual accuracy indicators: few recent dates, statistics, or citations")
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	if avg := total / float64(len(scores)); avg < 40 {
		result.AddFinding("Overall E-E-A-T is very low: this significantly impacts AI and search visibility")
	}
}

// addRecommendations attaches prioritized suggestions, including quick
// wins for cheap-to-fix gaps.
func (a *EEATAnalyzer) addRecommendations(result *model.MetricResult, snap *model.PageSnapshot) {
	scores := result.Scores
	lowered := strings.ToLower(snap.Text)

	if scores["expertise_experience"] < 50 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Strengthen expertise and experience signals",
			"Add detailed author bios with credentials",
			"Showcase expertise with portfolio or case study examples",
			"Use first-person narrative to demonstrate hands-on experience",
			"Include awards, certifications, or professional memberships",
		))
	}

	if scores["authoritativeness"] < 50 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Build authoritativeness and industry recognition",
			"Link to authoritative sources (.gov, .edu, peer-reviewed journals) when making claims",
			"Display media mentions or press coverage",
			"Create original research or data studies that others will cite",
			"Publish in-depth guides that demonstrate thought leadership",
		))
	}

	if scores["trustworthiness"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Improve trustworthiness and transparency",
			"Add a contact page with multiple contact methods",
			"Create a detailed About page explaining history, mission, and team",
			"Implement clear privacy policy and terms of service pages",
			"Add last-updated dates to content to show currency",
		))
	}

	if scores["factual_accuracy"] < 60 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Enhance factual accuracy and citation quality",
			"Add inline citations for factual claims and statistics",
			"Include publication dates on all content",
			"Link to original data sources when citing research",
			"Update outdated statistics and information regularly",
		))
	}

	var quickWins []string
	if !strings.HasPrefix(snap.URL, "https://") {
		quickWins = append(quickWins, "Migrate to HTTPS: a critical trust factor")
	}
	if !strings.Contains(lowered, "privacy") {
		quickWins = append(quickWins, "Add a privacy policy page")
	}
	if !containsAny(lowered, authorPatterns) {
		quickWins = append(quickWins, "Add author bylines to all content")
	}
	if len(quickWins) > 0 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityQuickWin,
			"Immediate E-E-A-T improvements", quickWins...))
	}
}
