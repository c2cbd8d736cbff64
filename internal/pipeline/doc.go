// Package pipeline orchestrates the grading flow for a single URL.
//
// A grading run is a sequence of steps: fetch the page, collect
// robots.txt, gather external performance data, run the category
// analyzers, aggregate scores into a report, persist it to history, and
// write it to the configured outputs. Each step implements the Step
// interface and operates on a shared State.
//
// The BatchProcessor runs the same pipeline over many URLs concurrently
// with a bounded degree of parallelism.
package pipeline
