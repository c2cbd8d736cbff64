// Package model defines the core data structures used throughout aigrader.
//
// This package contains the following main types:
//   - PageSnapshot: Immutable view of one fetched web page
//   - PerformanceSnapshot: Optional external performance/validation data
//   - MetricResult: Per-analyzer scores, findings, and recommendations
//   - GradeReport: The main analysis result structure
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (fetch, analyzer, score, report) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
