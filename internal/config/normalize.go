package config

import (
	"fmt"
	"os"
	"strings"

	"subrecon/internal/srt"
)

func (c *Config) normalize() error {
	if err := c.normalizeFiles(); err != nil {
		return err
	}
	c.normalizeMatching()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeFiles() error {
	var err error
	if c.Files.TextSource, err = expandPath(strings.TrimSpace(c.Files.TextSource)); err != nil {
		return fmt.Errorf("files.text_source: %w", err)
	}
	if c.Files.TimingSource, err = expandPath(strings.TrimSpace(c.Files.TimingSource)); err != nil {
		return fmt.Errorf("files.timing_source: %w", err)
	}
	if c.Files.Output, err = expandPath(strings.TrimSpace(c.Files.Output)); err != nil {
		return fmt.Errorf("files.output: %w", err)
	}
	c.Files.Encoding = strings.ToLower(strings.TrimSpace(c.Files.Encoding))
	if c.Files.Encoding == "" {
		c.Files.Encoding = srt.DefaultEncoding
	}
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.Metric = strings.ToLower(strings.TrimSpace(c.Matching.Metric))
	if c.Matching.Metric == "" {
		c.Matching.Metric = "ratio"
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("SUBRECON_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
