// Package log provides a redacting slog handler for aigrader.
// Log output may include request headers and configuration values, so the
// handler masks API keys and other credentials before they reach the sink.
package log
