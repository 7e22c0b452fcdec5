package config

import "subrecon/internal/srt"

const (
	defaultConfigPath  = "~/.config/subrecon/config.toml"
	projectConfigName  = "subrecon.toml"
	defaultHistoryFile = "~/.local/share/subrecon/history.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Files: Files{
			Encoding: srt.DefaultEncoding,
		},
		Matching: Matching{
			ToleranceStartMS:    20000,
			ToleranceEndMS:      160000,
			MinSimilarity:       0.55,
			TopK:                5,
			MaxAvgRank:          3.0,
			Metric:              "ratio",
			EnforceMonotonic:    true,
			SpreadWindowSeconds: 10.0,
		},
		Output: Output{
			Annotate: true,
		},
		History: History{
			Path: defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
