package testsupport

import (
	"path/filepath"
	"testing"

	"subrecon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose file, history, and log paths live in a
// per-test temp directory. Sources are not created; pair it with WriteSRT.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Files.TextSource = filepath.Join(base, "text.srt")
	cfgVal.Files.TimingSource = filepath.Join(base, "timing.srt")
	cfgVal.Files.Output = filepath.Join(base, "reconciled.srt")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	cfgVal.Matching.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithHistory enables run history in the test config.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithAnnotations toggles annotated output.
func WithAnnotations(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Annotate = enabled
	}
}

// WithMatching replaces the matching section.
func WithMatching(matching config.Matching) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching = matching
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Files.TextSource)
}
