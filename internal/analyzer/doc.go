// Package analyzer implements the seven metric analyzers that grade a page
// snapshot: AI optimization, content quality, E-E-A-T signals, technical SEO,
// mobile optimization, schema markup, and technical crawlability.
//
// Each analyzer reads an immutable Input and produces a MetricResult with
// per-metric scores, findings, and prioritized recommendations. Analyzers
// never perform I/O; everything they need was collected during the fetch
// and measurement stages, which keeps them trivially parallelizable and
// deterministic.
package analyzer
