package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/aigrader/internal/model"
)

// richSnippetTypes are the schema.org types that commonly trigger rich
// results in search and answer engines.
var richSnippetTypes = []string{
	"faqpage", "howto", "recipe", "review", "product",
	"article", "event", "organization", "localbusiness",
}

// keySchemaProperties are the properties that make structured data
// useful to machine consumers regardless of the specific type.
var keySchemaProperties = []string{"name", "description", "image", "url", "author"}

// SchemaAnalyzer grades structured data: presence, validity,
// rich-snippet potential, and completeness of the markup.
type SchemaAnalyzer struct{}

// NewSchemaAnalyzer creates the structured data analyzer.
func NewSchemaAnalyzer() *SchemaAnalyzer {
	return &SchemaAnalyzer{}
}

// Category implements Analyzer.
func (a *SchemaAnalyzer) Category() model.Category {
	return model.CategorySchemaAnalysis
}

// Analyze implements Analyzer.
func (a *SchemaAnalyzer) Analyze(_ context.Context, in *Input) *model.MetricResult {
	snap := in.Snapshot
	result := model.NewMetricResult()

	blob := schemaBlob(snap)

	result.SetScore("schema_presence", analyzeSchemaPresence(snap))
	result.SetScore("schema_validation", analyzeSchemaValidation(snap))
	result.SetScore("rich_snippet_potential", analyzeRichSnippetPotential(snap, blob))
	result.SetScore("structured_data_completeness", analyzeSchemaCompleteness(snap, blob))
	result.SetScore("json_ld_implementation", analyzeJSONLDImplementation(snap))

	a.addFindings(result, snap, blob)
	a.addRecommendations(result, snap, blob)
	return result
}

// schemaBlob serializes every schema block into one lowercase string so
// type and property checks become simple substring tests.
func schemaBlob(snap *model.PageSnapshot) string {
	var sb strings.Builder
	for _, block := range snap.Schema.JSONLD {
		if raw, err := json.Marshal(block); err == nil {
			sb.Write(raw)
			sb.WriteByte(' ')
		}
	}
	for _, itemType := range snap.Schema.Microdata {
		sb.WriteString(itemType)
		sb.WriteByte(' ')
	}
	return strings.ToLower(sb.String())
}

func analyzeSchemaPresence(snap *model.PageSnapshot) float64 {
	score := 0.0
	if len(snap.Schema.JSONLD) > 0 {
		score += 60
	}
	if len(snap.Schema.Microdata) > 0 {
		score += 40
	}
	return score
}

// analyzeSchemaValidation checks each JSON-LD block for the @context
// and @type members that consumers require.
func analyzeSchemaValidation(snap *model.PageSnapshot) float64 {
	if !snap.Schema.Present() {
		return 0
	}
	if len(snap.Schema.JSONLD) == 0 {
		// Microdata only: parseable but weakly verifiable.
		return 60
	}

	score := 100.0
	for _, block := range snap.Schema.JSONLD {
		if _, ok := block["@context"]; !ok {
			score -= 20
		}
		if _, ok := block["@type"]; !ok {
			score -= 20
		}
	}
	return clamp(score, 0, 100)
}

func analyzeRichSnippetPotential(snap *model.PageSnapshot, blob string) float64 {
	score := 0.0
	for _, typ := range richSnippetTypes {
		if strings.Contains(blob, typ) {
			score += 20
		}
	}

	text := strings.ToLower(snap.Text)
	if strings.Contains(text, "?") && (strings.Contains(text, "answer") || strings.Contains(text, "question")) {
		score += 20
	}

	return clamp(score, 0, 100)
}

func analyzeSchemaCompleteness(snap *model.PageSnapshot, blob string) float64 {
	if !snap.Schema.Present() {
		return 0
	}

	score := 50.0
	if len(snap.Schema.JSONLD) > 1 {
		score += 25
	} else if len(snap.Schema.Microdata) > 0 {
		score += 15
	}

	present := 0
	for _, prop := range keySchemaProperties {
		if strings.Contains(blob, prop) {
			present++
		}
	}
	score += float64(present) / float64(len(keySchemaProperties)) * 25

	return clamp(round(score), 0, 100)
}

func analyzeJSONLDImplementation(snap *model.PageSnapshot) float64 {
	switch {
	case len(snap.Schema.JSONLD) > 0:
		return 100
	case len(snap.Schema.Microdata) > 0:
		return 50
	default:
		return 0
	}
}

// hasSchemaType reports whether a schema.org type appears in the
// serialized markup.
func hasSchemaType(blob, typ string) bool {
	return strings.Contains(blob, strings.ToLower(typ))
}

// identifyMissingSchemas suggests up to three schema types the page
// content appears to warrant but the markup lacks.
func identifyMissingSchemas(snap *model.PageSnapshot, blob string) []string {
	text := strings.ToLower(snap.Text)
	var missing []string

	if !hasSchemaType(blob, "organization") &&
		containsAny(text, []string{"company", "business", "about us", "contact"}) {
		missing = append(missing, "Organization")
	}
	if !hasSchemaType(blob, "article") &&
		snap.HeadingCount(1) > 0 && snap.WordCount > 300 {
		missing = append(missing, "Article")
	}
	if !hasSchemaType(blob, "faqpage") && strings.Count(text, "?") >= 3 {
		missing = append(missing, "FAQPage")
	}
	if !hasSchemaType(blob, "howto") &&
		containsAny(text, []string{"step 1", "step 2", "how to", "instructions"}) {
		missing = append(missing, "HowTo")
	}
	if !hasSchemaType(blob, "breadcrumblist") {
		missing = append(missing, "BreadcrumbList")
	}
	if !hasSchemaType(blob, "localbusiness") &&
		containsAny(text, []string{"address", "hours", "location", "phone"}) &&
		containsAny(text, []string{"store", "shop", "restaurant"}) {
		missing = append(missing, "LocalBusiness")
	}

	if len(missing) > 3 {
		missing = missing[:3]
	}
	return missing
}

func (a *SchemaAnalyzer) addFindings(result *model.MetricResult, snap *model.PageSnapshot, blob string) {
	scores := result.Scores

	if scores["schema_presence"] == 0 {
		result.AddFinding("No structured data markup found")
		return
	}

	var found []string
	for _, typ := range richSnippetTypes {
		if strings.Contains(blob, typ) {
			found = append(found, typ)
		}
	}
	if len(found) > 0 {
		result.AddFinding(fmt.Sprintf("Structured data types detected: %s", strings.Join(found, ", ")))
	}
	if len(snap.Schema.JSONLD) == 0 && len(snap.Schema.Microdata) > 0 {
		result.AddFinding("Only microdata markup found, no JSON-LD")
	}
	if scores["schema_validation"] < 100 {
		result.AddFinding("Some structured data blocks are missing @context or @type")
	}
	if missing := identifyMissingSchemas(snap, blob); len(missing) > 0 {
		result.AddFinding(fmt.Sprintf("Content suggests additional schema types: %s", strings.Join(missing, ", ")))
	}
}

func (a *SchemaAnalyzer) addRecommendations(result *model.MetricResult, snap *model.PageSnapshot, blob string) {
	scores := result.Scores

	if scores["schema_presence"] == 0 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityCritical,
			"Add structured data markup immediately",
			"Start with Organization or WebSite schema in JSON-LD",
			"Add Article schema for content pages",
			"Use Google's Rich Results Test to validate",
		))
		return
	}

	if scores["schema_presence"] < 70 {
		details := []string{"Implement the missing types as JSON-LD script blocks:"}
		for _, typ := range identifyMissingSchemas(snap, blob) {
			details = append(details, fmt.Sprintf(
				`<script type="application/ld+json">{"@context": "https://schema.org", "@type": %q}</script>`, typ))
		}
		result.AddRecommendation(model.NewRecommendation(model.PriorityHigh,
			"Expand structured data coverage", details...))
	}

	if len(snap.Schema.JSONLD) == 0 && len(snap.Schema.Microdata) > 0 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Upgrade microdata to JSON-LD",
			"JSON-LD is easier to maintain and preferred by search engines",
			"Keep the same schema.org types, move them into script blocks",
		))
	}

	if scores["structured_data_completeness"] < 80 {
		var missing []string
		for _, prop := range keySchemaProperties {
			if !strings.Contains(blob, prop) {
				missing = append(missing, prop)
			}
		}
		if len(missing) > 0 {
			result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
				"Complete structured data properties",
				fmt.Sprintf("Add missing properties: %s", strings.Join(missing, ", ")),
			))
		}
	}

	if scores["rich_snippet_potential"] < 70 {
		result.AddRecommendation(model.NewRecommendation(model.PriorityMedium,
			"Increase rich snippet potential",
			"Add FAQPage schema for question-and-answer content",
			"Add HowTo schema for instructional content",
			"Mark up reviews and products where applicable",
		))
	}
}
