package preflight

import (
	"path/filepath"

	"turtile/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check that applies to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Socket directory", filepath.Dir(cfg.SocketPath())),
		CheckBinary("Shell", shellPath, false),
	}
	for _, line := range cfg.Autostart {
		results = append(results, CheckAutostart(line))
	}
	results = append(results, CheckKeybinds(cfg.Keybinds)...)
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
