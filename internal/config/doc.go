// Package config provides configuration structures and utilities for aigrader.
// It defines the grading options (fetch behavior, external API usage, category
// weights) and report generation preferences.
package config
