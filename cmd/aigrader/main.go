// Package main provides the entry point for the aigrader CLI.
//
// aigrader grades how well a website is prepared for AI-driven search and
// answer engines. It fetches a page, analyzes structure, content, schema
// markup, and mobile readiness, and produces a weighted 0-100 score with
// prioritized recommendations.
//
// Usage:
//
//	aigrader grade https://example.com
//	aigrader compare https://example.com
//
// See --help for all available options.
package main

// main is the entry point for aigrader.
func main() {
	Execute()
}
