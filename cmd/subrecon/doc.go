// Package main hosts the subrecon CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into
// reconciliation runs, SubRip maintenance (shift, reindex, validate), history
// queries against the SQLite run store, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands only translate flags into calls on the internal packages.
//
// Keep this package lean: matching behaviour belongs in internal/reconcile
// and file handling in internal/srt; commands here only wire them together
// and render results.
package main
