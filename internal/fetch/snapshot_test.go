package fetch

import (
	"strings"
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Complete Guide to Sourdough Baking</title>
  <meta name="description" content="Learn sourdough baking from starter to crust.">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="robots" content="index, follow">
  <meta property="og:title" content="Sourdough Guide">
  <link rel="stylesheet" href="/main.css">
  <style>@media (max-width: 600px) { body { font-size: 14px; } }</style>
  <script type="application/ld+json">
  {"@context": "https://schema.org", "@type": "Article", "name": "Sourdough Guide"}
  </script>
  <script type="application/ld+json">not valid json</script>
</head>
<body>
  <header><nav><a href="/home">Home</a></nav></header>
  <article>
    <h1>Complete Guide to Sourdough Baking</h1>
    <h2>Getting Started</h2>
    <p>Sourdough baking begins with a healthy starter culture.</p>
    <h2>Maintaining the Starter</h2>
    <p>Feed the starter twice daily with equal parts flour and water.</p>
    <ul><li>Flour</li><li>Water</li></ul>
    <table><tr><td>Day 1</td><td>Feed</td></tr></table>
    <img src="/starter.jpg" alt="A bubbly sourdough starter">
    <img src="/crumb.jpg" alt="">
    <img src="/loaf.jpg">
    <a href="/recipes">Recipes</a>
    <a href="https://external.example/flour">Flour supplier</a>
    <a href="#">skip</a>
    <a href="mailto:baker@example.com">mail</a>
    <div itemscope itemtype="https://schema.org/Recipe"><span>Basic loaf</span></div>
    <button>Subscribe</button>
  </article>
  <footer><p>Copyright 2024</p></footer>
  <script>console.log("hidden from text");</script>
</body>
</html>`

func TestBuildSnapshot(t *testing.T) {
	t.Parallel()

	snap, err := BuildSnapshot("https://example.com/guide", 200, strings.NewReader(sampleHTML), false)
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}

	if snap.Title != "Complete Guide to Sourdough Baking" {
		t.Errorf("Title = %q", snap.Title)
	}
	if snap.MetaDescription != "Learn sourdough baking from starter to crust." {
		t.Errorf("MetaDescription = %q", snap.MetaDescription)
	}
	if !snap.ViewportPresent || !strings.Contains(snap.ViewportContent, "width=device-width") {
		t.Errorf("viewport not extracted: %q", snap.ViewportContent)
	}
	if snap.RobotsMeta != "index, follow" {
		t.Errorf("RobotsMeta = %q", snap.RobotsMeta)
	}
	if snap.MetaTags["og:title"] != "Sourdough Guide" {
		t.Errorf("og:title = %q", snap.MetaTags["og:title"])
	}

	if got := snap.HeadingCount(1); got != 1 {
		t.Errorf("h1 count = %d, want 1", got)
	}
	if got := snap.HeadingCount(2); got != 2 {
		t.Errorf("h2 count = %d, want 2", got)
	}

	if len(snap.Paragraphs) != 2 {
		t.Errorf("paragraphs = %d, want 2 (footer paragraph stripped)", len(snap.Paragraphs))
	}

	if strings.Contains(snap.Text, "hidden from text") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(snap.Text, "Home") {
		t.Error("nav content leaked into extracted text")
	}
	if !strings.Contains(snap.Text, "starter culture") {
		t.Error("article text missing from extracted text")
	}

	if len(snap.Images) != 3 {
		t.Fatalf("images = %d, want 3", len(snap.Images))
	}
	if !snap.Images[0].MeaningfulAlt() {
		t.Error("first image should have meaningful alt")
	}
	if !snap.Images[1].Decorative {
		t.Error("empty-alt image should be decorative")
	}
	if snap.Images[2].HasAlt {
		t.Error("third image should have no alt attribute")
	}
	if snap.Images[0].Src != "https://example.com/starter.jpg" {
		t.Errorf("image src not resolved: %q", snap.Images[0].Src)
	}

	// /home (nav) and /recipes are internal, the supplier link external.
	// Fragment-only, mailto and javascript links are dropped.
	if len(snap.Links.Internal) != 2 {
		t.Errorf("internal links = %v, want 2", snap.Links.Internal)
	}
	if len(snap.Links.External) != 1 {
		t.Errorf("external links = %v, want 1", snap.Links.External)
	}

	if len(snap.Schema.JSONLD) != 1 {
		t.Fatalf("json-ld blocks = %d, want 1 (invalid block dropped)", len(snap.Schema.JSONLD))
	}
	if snap.Schema.JSONLD[0]["@type"] != "Article" {
		t.Errorf("json-ld @type = %v", snap.Schema.JSONLD[0]["@type"])
	}
	if len(snap.Schema.Microdata) != 1 || !strings.Contains(snap.Schema.Microdata[0], "Recipe") {
		t.Errorf("microdata = %v", snap.Schema.Microdata)
	}

	if snap.ListCount != 1 {
		t.Errorf("ListCount = %d, want 1", snap.ListCount)
	}
	if snap.TableCount != 1 {
		t.Errorf("TableCount = %d, want 1", snap.TableCount)
	}
	if !snap.HasSemanticElements {
		t.Error("semantic elements not detected")
	}
	if !snap.HasMediaQueries {
		t.Error("media query not detected")
	}
	if snap.StylesheetCount != 1 {
		t.Errorf("StylesheetCount = %d, want 1", snap.StylesheetCount)
	}
	if snap.WordCount == 0 {
		t.Error("word count should be positive")
	}
}

func TestBuildSnapshotJSONLDArray(t *testing.T) {
	t.Parallel()

	html := `<html><head><script type="application/ld+json">
	[{"@type": "FAQPage"}, {"@type": "Organization"}]
	</script></head><body></body></html>`

	snap, err := BuildSnapshot("https://example.com", 200, strings.NewReader(html), false)
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	if len(snap.Schema.JSONLD) != 2 {
		t.Errorf("json-ld blocks = %d, want 2 from array", len(snap.Schema.JSONLD))
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "https url", input: "https://example.com/page", want: "https://example.com/page"},
		{name: "http url", input: "http://example.com", want: "http://example.com"},
		{name: "missing scheme", input: "example.com", want: "https://example.com"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "scheme only", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := ValidateURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateURL(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateURL(%q) error = %v", tt.input, err)
			}
			if u.String() != tt.want {
				t.Errorf("ValidateURL(%q) = %q, want %q", tt.input, u.String(), tt.want)
			}
		})
	}
}
