package model

// PageSnapshot is an immutable-after-fetch view of one web page.
// It holds everything the metric analyzers need: extracted text, structural
// counts, links, images, and structured-data blocks.
//
// Design decision: We extract all signals in a single parsing pass and hand
// analyzers this flat snapshot rather than the parsed DOM because:
//  1. Analyzers stay independent of the HTML parsing library
//  2. The snapshot is trivially safe to share across concurrent analyzers
//  3. Tests can construct snapshots directly without any HTML fixture
type PageSnapshot struct {
	// URL is the fetched page URL after redirects.
	URL string `json:"url"`

	// StatusCode is the final HTTP response status code.
	StatusCode int `json:"status_code"`

	// Title is the page title from the <title> tag.
	Title string `json:"title,omitempty"`

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string `json:"meta_description,omitempty"`

	// Text is the visible text content after removing script, style, nav,
	// header, and footer elements, with whitespace collapsed.
	Text string `json:"-"` // Excluded from JSON due to size

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int `json:"word_count"`

	// Headings maps heading level (1..6) to the heading texts in document
	// order. Levels with no headings are absent.
	Headings map[int][]string `json:"headings,omitempty"`

	// Paragraphs contains the text of each <p> element in document order.
	// Used for chunkability analysis.
	Paragraphs []string `json:"-"` // Excluded from JSON due to size

	// Images contains all <img> elements with alt-text information.
	Images []Image `json:"images,omitempty"`

	// Links contains deduplicated absolute internal and external link URLs.
	Links LinkSet `json:"links"`

	// Schema contains parsed JSON-LD blocks and microdata type strings.
	Schema SchemaMarkup `json:"schema"`

	// MetaTags maps meta tag name (or property/http-equiv) to content.
	MetaTags map[string]string `json:"meta_tags,omitempty"`

	// ViewportPresent is true if a <meta name="viewport"> tag exists.
	ViewportPresent bool `json:"viewport_present"`

	// ViewportContent is the content attribute of the viewport meta tag.
	ViewportContent string `json:"viewport_content,omitempty"`

	// RobotsMeta is the content of <meta name="robots">, empty if absent.
	RobotsMeta string `json:"robots_meta,omitempty"`

	// RobotsTxt is the body of the site's robots.txt, empty if unavailable.
	RobotsTxt string `json:"-"` // Excluded from JSON due to size

	// ListCount is the number of <ul> and <ol> elements.
	ListCount int `json:"list_count"`

	// TableCount is the number of <table> elements.
	TableCount int `json:"table_count"`

	// HasSemanticElements is true if any of article, section, aside, nav,
	// header, or footer elements are present.
	HasSemanticElements bool `json:"has_semantic_elements"`

	// InteractiveCount is the number of <button> and <a> elements.
	// Used as a touch-target proxy since real tap-size measurement
	// requires rendering.
	InteractiveCount int `json:"interactive_count"`

	// HasMediaQueries is true if any inline <style> block contains an
	// @media rule.
	HasMediaQueries bool `json:"has_media_queries"`

	// StylesheetCount is the number of <link rel="stylesheet"> elements.
	StylesheetCount int `json:"stylesheet_count"`

	// Rendered is true when the snapshot was produced by the JS-rendering
	// fetcher rather than the static HTTP fetcher.
	Rendered bool `json:"rendered"`
}

// Image represents one <img> element with its alt-text state.
type Image struct {
	// Src is the image source URL, resolved against the page URL.
	Src string `json:"src"`

	// Alt is the alt attribute value, empty if absent or empty.
	Alt string `json:"alt,omitempty"`

	// HasAlt is true when the alt attribute exists, even if empty.
	// An empty alt="" is valid for decorative images; a missing alt
	// attribute is the actual accessibility problem.
	HasAlt bool `json:"has_alt"`

	// Decorative is true when the alt attribute exists but is empty.
	Decorative bool `json:"decorative"`
}

// MeaningfulAlt reports whether the image carries non-empty alt text.
func (i Image) MeaningfulAlt() bool {
	return i.HasAlt && i.Alt != ""
}

// LinkSet holds deduplicated absolute link URLs, split by whether they
// point at the page's own host.
type LinkSet struct {
	// Internal contains links to the same host as the page.
	Internal []string `json:"internal,omitempty"`

	// External contains links to other hosts.
	External []string `json:"external,omitempty"`
}

// Total returns the combined number of internal and external links.
func (l LinkSet) Total() int {
	return len(l.Internal) + len(l.External)
}

// SchemaMarkup holds the structured-data blocks extracted from a page.
type SchemaMarkup struct {
	// JSONLD contains each parsed <script type="application/ld+json">
	// block that decoded to a JSON object. Blocks that fail to decode
	// are dropped during extraction.
	JSONLD []map[string]any `json:"json_ld,omitempty"`

	// Microdata contains the itemtype attribute values of elements
	// using microdata markup.
	Microdata []string `json:"microdata,omitempty"`
}

// Present reports whether any structured data was found at all.
func (s SchemaMarkup) Present() bool {
	return len(s.JSONLD) > 0 || len(s.Microdata) > 0
}

// TotalHeadings returns the number of headings across all levels.
func (p *PageSnapshot) TotalHeadings() int {
	total := 0
	for _, hs := range p.Headings {
		total += len(hs)
	}
	return total
}

// HeadingCount returns the number of headings at the given level (1..6).
func (p *PageSnapshot) HeadingCount(level int) int {
	return len(p.Headings[level])
}
