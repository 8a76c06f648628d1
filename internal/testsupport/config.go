package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"turtile/internal/config"
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
	cfgVal.Paths.Socket = SocketPath(t)
	cfgVal.Session.Workspaces = []string{"main", "test"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithWorkspaces replaces the configured workspace set.
func WithWorkspaces(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.Workspaces = append([]string(nil), names...)
	}
}

// WithRestoreWorkspace toggles restoring the active workspace on start.
func WithRestoreWorkspace(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.RestoreWorkspace = enabled
	}
}

// WithAutostart sets the autostart command list.
func WithAutostart(cmds ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Autostart = append([]string(nil), cmds...)
	}
}

// SocketPath returns a short unix socket path unique to the test. Socket
// paths are limited to 108 bytes, which t.TempDir often exceeds.
func SocketPath(t testing.TB) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "tt")
	if err != nil {
		t.Fatalf("mkdir socket dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return filepath.Join(dir, fmt.Sprintf("tt-%d.sock", os.Getpid()))
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
