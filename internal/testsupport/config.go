package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"emotiplot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The data and output directories exist; the session runs in UTC so fixture
// epochs map onto predictable wall-clock times.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.OutputDir = filepath.Join(base, "plots")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Session.Timezone = "UTC"

	for _, dir := range []string{cfgVal.Paths.DataDir, cfgVal.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

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

// WithSessionDate sets session.date (YYYY-MM-DD).
func WithSessionDate(date string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.Date = date
	}
}

// WithTimezone overrides the session time zone.
func WithTimezone(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.Timezone = name
	}
}

// WithSignals restricts the run to the given channel codes.
func WithSignals(codes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Render.Signals = codes
	}
}

// WithSchedule points the config at a schedule file.
func WithSchedule(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.SchedulePath = path
	}
}

// WithoutOutputDir removes the output directory so renders hit the missing
// directory path.
func WithoutOutputDir() ConfigOption {
	return func(b *configBuilder) {
		if err := os.RemoveAll(b.cfg.Paths.OutputDir); err != nil {
			b.t.Fatalf("remove output dir: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
