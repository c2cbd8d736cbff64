package model

// Category identifies one of the scoring categories that make up the
// overall AI-readiness grade.
//
// Design decision: We use iota-based constants with a Key() method
// rather than raw strings so that the weight table, the analyzer
// registry, and report rendering all agree on a single canonical
// identifier per category. Key() values are stable and appear in JSON
// output and the history database.
type Category int

const (
	// CategoryAIOptimization measures how well content is structured for
	// AI extraction (chunkability, Q&A format, entity and factual density).
	CategoryAIOptimization Category = iota

	// CategoryMobileOptimization measures mobile friendliness (viewport,
	// responsive design, Core Web Vitals).
	CategoryMobileOptimization

	// CategoryTechnicalCrawlability measures whether crawlers and AI bots
	// can reach and read the content (robots directives, bot access,
	// JavaScript dependence).
	CategoryTechnicalCrawlability

	// CategorySchemaAnalysis measures structured data markup (JSON-LD,
	// microdata, rich snippet potential).
	CategorySchemaAnalysis

	// CategoryTechnicalSEO measures classic on-page SEO signals (headings,
	// meta tags, alt text, links).
	CategoryTechnicalSEO

	// CategoryContentQuality measures depth and usefulness of the content
	// itself (coverage, intent alignment, currency).
	CategoryContentQuality

	// CategoryEEATSignals measures experience, expertise, authoritativeness
	// and trust indicators.
	CategoryEEATSignals
)

// Key returns the canonical snake_case identifier for the category.
// These keys index the weight table and appear in JSON reports.
func (c Category) Key() string {
	switch c {
	case CategoryAIOptimization:
		return "ai_optimization"
	case CategoryMobileOptimization:
		return "mobile_optimization"
	case CategoryTechnicalCrawlability:
		return "technical_crawlability"
	case CategorySchemaAnalysis:
		return "schema_analysis"
	case CategoryTechnicalSEO:
		return "technical_seo"
	case CategoryContentQuality:
		return "content_quality"
	case CategoryEEATSignals:
		return "eeat_signals"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAIOptimization:
		return "AI Optimization"
	case CategoryMobileOptimization:
		return "Mobile Optimization"
	case CategoryTechnicalCrawlability:
		return "Technical Crawlability"
	case CategorySchemaAnalysis:
		return "Schema Analysis"
	case CategoryTechnicalSEO:
		return "Technical SEO"
	case CategoryContentQuality:
		return "Content Quality"
	case CategoryEEATSignals:
		return "E-E-A-T Signals"
	default:
		return "Unknown"
	}
}

// AllCategories returns every scoring category in a stable order.
// The order matches the weight table from highest to lowest weight.
func AllCategories() []Category {
	return []Category{
		CategoryAIOptimization,
		CategoryMobileOptimization,
		CategoryTechnicalCrawlability,
		CategorySchemaAnalysis,
		CategoryTechnicalSEO,
		CategoryContentQuality,
		CategoryEEATSignals,
	}
}
