// Package logging assembles structured slog loggers and formatting helpers used
// across subrecon commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine stages automatically
// tag log lines with the run's correlation ID. A no-op logger is provided for
// tests and library callers that do not want output.
package logging
