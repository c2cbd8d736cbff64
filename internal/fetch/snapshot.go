package fetch

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/aigrader/internal/model"
)

// elements stripped before text extraction. Navigation chrome and
// script/style content would pollute word counts and density metrics.
const nonContentSelector = "script, style, noscript, nav, header, footer"

// BuildSnapshot parses the HTML in r and extracts every signal the
// analyzers need into a single immutable snapshot.
//
// Design decision: One parsing pass produces a flat struct instead of
// handing analyzers the goquery document because:
//  1. The snapshot is safe to share across concurrent analyzers
//  2. Analyzers never depend on the HTML library and are trivially testable
//  3. Signal extraction bugs are localized to this one file
func BuildSnapshot(pageURL string, statusCode int, r io.Reader, rendered bool) (*model.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, ErrEmptyDocument
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, ErrInvalidURL
	}

	snap := &model.PageSnapshot{
		URL:        pageURL,
		StatusCode: statusCode,
		Rendered:   rendered,
		Headings:   make(map[int][]string),
		MetaTags:   make(map[string]string),
	}

	snap.Title = strings.TrimSpace(doc.Find("title").First().Text())

	extractMetaTags(doc, snap)
	extractText(doc, snap)
	extractHeadings(doc, snap)
	extractImages(doc, base, snap)
	extractLinks(doc, base, snap)
	extractSchema(doc, snap)
	extractStructure(doc, snap)

	return snap, nil
}

// extractMetaTags collects meta tags and the viewport/robots signals.
func extractMetaTags(doc *goquery.Document, snap *model.PageSnapshot) {
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			snap.MetaTags[strings.ToLower(name)] = content
			return
		}
		if prop, ok := s.Attr("property"); ok && prop != "" {
			snap.MetaTags[strings.ToLower(prop)] = content
		}
	})

	snap.MetaDescription = snap.MetaTags["description"]
	snap.RobotsMeta = snap.MetaTags["robots"]
	if viewport, ok := snap.MetaTags["viewport"]; ok {
		snap.ViewportPresent = true
		snap.ViewportContent = viewport
	}
}

// extractText pulls the visible text with navigation chrome removed, and
// the per-paragraph texts used for chunkability analysis.
//
// The clone is required: removing nodes from the live document would hide
// them from the structural extraction that runs afterwards.
func extractText(doc *goquery.Document, snap *model.PageSnapshot) {
	body := doc.Find("body").Clone()
	body.Find(nonContentSelector).Remove()

	// NFC normalization keeps word counts stable for pages that mix
	// composed and decomposed Unicode forms.
	text := norm.NFC.String(body.Text())
	snap.Text = strings.Join(strings.Fields(text), " ")
	snap.WordCount = len(strings.Fields(snap.Text))

	body.Find("p").Each(func(_ int, s *goquery.Selection) {
		p := strings.TrimSpace(norm.NFC.String(s.Text()))
		if p != "" {
			snap.Paragraphs = append(snap.Paragraphs, p)
		}
	})
}

// extractHeadings collects heading texts per level in document order.
func extractHeadings(doc *goquery.Document, snap *model.PageSnapshot) {
	selectors := []struct {
		level int
		tag   string
	}{
		{1, "h1"}, {2, "h2"}, {3, "h3"}, {4, "h4"}, {5, "h5"}, {6, "h6"},
	}

	for _, sel := range selectors {
		doc.Find(sel.tag).Each(func(_ int, s *goquery.Selection) {
			snap.Headings[sel.level] = append(snap.Headings[sel.level], strings.TrimSpace(s.Text()))
		})
	}
}

// extractImages collects all img elements with their alt-text state.
func extractImages(doc *goquery.Document, base *url.URL, snap *model.PageSnapshot) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")

		img := model.Image{
			Src:        resolveURL(base, src),
			Alt:        strings.TrimSpace(alt),
			HasAlt:     hasAlt,
			Decorative: hasAlt && strings.TrimSpace(alt) == "",
		}
		snap.Images = append(snap.Images, img)
	})
}

// extractLinks collects deduplicated absolute links, split by host.
func extractLinks(doc *goquery.Document, base *url.URL, snap *model.PageSnapshot) {
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		resolved.Fragment = ""

		abs := resolved.String()
		if seen[abs] {
			return
		}
		seen[abs] = true

		if resolved.Host == base.Host {
			snap.Links.Internal = append(snap.Links.Internal, abs)
		} else {
			snap.Links.External = append(snap.Links.External, abs)
		}
	})
}

// extractSchema collects JSON-LD blocks and microdata itemtype values.
// JSON-LD blocks that fail to decode are dropped; the validation metric
// only grades blocks the page actually serves as valid JSON.
func extractSchema(doc *goquery.Document, snap *model.PageSnapshot) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		// A block may hold a single object or an array of objects.
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			snap.Schema.JSONLD = append(snap.Schema.JSONLD, obj)
			return
		}
		var list []map[string]any
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			snap.Schema.JSONLD = append(snap.Schema.JSONLD, list...)
		}
	})

	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		if itemtype, ok := s.Attr("itemtype"); ok && itemtype != "" {
			snap.Schema.Microdata = append(snap.Schema.Microdata, itemtype)
		}
	})
}

// extractStructure collects the structural counts used by the content
// structure, mobile, and crawlability analyzers.
func extractStructure(doc *goquery.Document, snap *model.PageSnapshot) {
	snap.ListCount = doc.Find("ul, ol").Length()
	snap.TableCount = doc.Find("table").Length()
	snap.HasSemanticElements = doc.Find("article, section, aside, nav, header, footer").Length() > 0
	snap.InteractiveCount = doc.Find("button, a").Length()
	snap.StylesheetCount = doc.Find(`link[rel="stylesheet"]`).Length()

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.Text(), "@media") {
			snap.HasMediaQueries = true
		}
	})
}

// resolveURL resolves ref against base, returning ref unchanged when it
// cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}
