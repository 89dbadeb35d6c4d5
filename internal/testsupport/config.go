package testsupport

import (
	"path/filepath"
	"testing"

	"tidy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the undo log backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Undo.Backend = backend
	}
}

// WithTolerantUndo disables strict undo.
func WithTolerantUndo() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Undo.Strict = false
	}
}

// WithRemoveEmptyDirs enables removal of emptied category folders on undo.
func WithRemoveEmptyDirs() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Undo.RemoveEmptyDirs = true
	}
}

// WithExtraCategories adds extension rules on top of the built-in table.
func WithExtraCategories(extra map[string]string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Categories.Extra = extra
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
