// Package config loads, normalizes, and validates subrecon configuration.
//
// It supplies defaults for every matching knob, expands user paths (including
// tilde shortcuts), reads TOML files, and honours environment fallbacks such
// as SUBRECON_LOG_LEVEL and XDG_DATA_HOME. Commands obtain engine parameters
// through Config.MatchingParams so CLI overrides and file settings pass the
// same validation.
package config
