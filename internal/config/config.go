package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subrecon/internal/reconcile"
)

//go:embed sample_config.toml
var sampleConfig string

// Files names the two input tracks and the output path.
type Files struct {
	TextSource   string `toml:"text_source"`
	TimingSource string `toml:"timing_source"`
	Output       string `toml:"output"`
	Encoding     string `toml:"encoding"`
}

// Matching tunes the reconciliation engine.
type Matching struct {
	ToleranceStartMS    int64   `toml:"time_tolerance_ms_start"`
	ToleranceEndMS      int64   `toml:"time_tolerance_ms_end"`
	MinSimilarity       float64 `toml:"min_similarity"`
	TopK                int     `toml:"top_k"`
	MaxAvgRank          float64 `toml:"max_avg_rank"`
	Metric              string  `toml:"metric"`
	EnforceMonotonic    bool    `toml:"enforce_monotonic"`
	SpreadWindowSeconds float64 `toml:"spread_window_seconds"`
	Workers             int     `toml:"workers"`
}

// Shift configures the linear time shift applied to the text source before
// matching.
type Shift struct {
	StartMS int64 `toml:"start_ms"`
	EndMS   int64 `toml:"end_ms"`
}

// Output controls how reconciled tracks are written.
type Output struct {
	Annotate bool `toml:"annotate"`
	CleanAds bool `toml:"clean_ads"`
}

// History controls the SQLite run history.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for subrecon.
type Config struct {
	Files    Files    `toml:"files"`
	Matching Matching `toml:"matching"`
	Shift    Shift    `toml:"shift"`
	Output   Output   `toml:"output"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strings.TrimSpace(strict.String()))
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// MatchingParams converts the matching section into engine parameters.
func (c *Config) MatchingParams() reconcile.Params {
	return reconcile.Params{
		ToleranceStartMS: c.Matching.ToleranceStartMS,
		ToleranceEndMS:   c.Matching.ToleranceEndMS,
		MinSimilarity:    c.Matching.MinSimilarity,
		TopK:             c.Matching.TopK,
		MaxAvgRank:       c.Matching.MaxAvgRank,
		Metric:           reconcile.Metric(c.Matching.Metric),
		EnforceMonotonic: c.Matching.EnforceMonotonic,
		SpreadWindow:     c.Matching.SpreadWindowSeconds,
		Workers:          c.Matching.Workers,
	}
}

// ShiftEnabled reports whether a linear shift is configured.
func (c *Config) ShiftEnabled() bool {
	return c.Shift.StartMS != 0 || c.Shift.EndMS != 0
}

// RequireFiles checks that both sources and the output path are set.
func (c *Config) RequireFiles() error {
	var missing []string
	if c.Files.TextSource == "" {
		missing = append(missing, "files.text_source")
	}
	if c.Files.TimingSource == "" {
		missing = append(missing, "files.timing_source")
	}
	if c.Files.Output == "" {
		missing = append(missing, "files.output")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s must be set (in the config file or via flags)", strings.Join(missing, ", "))
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subrecon", "history.db")
	}
	return defaultHistoryFile
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
