package config

import (
	"errors"
	"fmt"

	"subrecon/internal/logging"
	"subrecon/internal/reconcile"
	"subrecon/internal/srt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFiles(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFiles() error {
	if _, err := srt.LookupEncoding(c.Files.Encoding); err != nil {
		return fmt.Errorf("files.encoding: %w", err)
	}
	if c.Files.Output != "" && (c.Files.Output == c.Files.TextSource || c.Files.Output == c.Files.TimingSource) {
		return errors.New("files.output must differ from both sources")
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	switch {
	case m.ToleranceStartMS < 0:
		return errors.New("matching.time_tolerance_ms_start must be >= 0")
	case m.ToleranceEndMS < 0:
		return errors.New("matching.time_tolerance_ms_end must be >= 0")
	case m.MinSimilarity < 0 || m.MinSimilarity > 1:
		return errors.New("matching.min_similarity must be between 0 and 1")
	case m.TopK < 1:
		return errors.New("matching.top_k must be >= 1")
	case m.MaxAvgRank < 1:
		return errors.New("matching.max_avg_rank must be >= 1")
	case m.SpreadWindowSeconds <= 0:
		return errors.New("matching.spread_window_seconds must be positive")
	case m.Workers < 0:
		return errors.New("matching.workers must be >= 0")
	}
	if _, err := reconcile.ScorerFor(reconcile.Metric(m.Metric)); err != nil {
		return fmt.Errorf("matching.metric: %w", err)
	}
	return c.MatchingParams().Validate()
}

func (c *Config) validateLogging() error {
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
