package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"turtile/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBinary(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	if r := CheckBinary("Present", present, false); !r.Passed || r.Detail != present {
		t.Fatalf("expected present binary to pass, got %#v", r)
	}
	r := CheckBinary("Missing", "clearly-not-present-binary", true)
	if r.Passed || !r.Optional || r.Detail == "" {
		t.Fatalf("expected optional failure with detail, got %#v", r)
	}
}

func TestCheckAutostart(t *testing.T) {
	if r := CheckAutostart("FOO=1 waybar"); !r.Passed {
		t.Fatalf("expected assignment to pass, got %#v", r)
	}
	if r := CheckAutostart("clearly-not-present-binary --flag"); r.Passed || !r.Optional {
		t.Fatalf("expected optional failure, got %#v", r)
	}
}

func TestCheckKeybinds(t *testing.T) {
	results := CheckKeybinds([]config.Keybind{
		{Mods: []string{"super"}, Key: "1", Cmd: "workspace switch main"},
		{Mods: []string{"super"}, Key: "q", Cmd: "window fly"},
	})
	if len(results) != 1 || results[0].Passed || results[0].Name != "Keybind super+q" {
		t.Fatalf("unexpected results %#v", results)
	}

	ok := CheckKeybinds([]config.Keybind{{Key: "Return", Cmd: "window cycle"}})
	if len(ok) != 1 || !ok[0].Passed {
		t.Fatalf("expected a passing summary, got %#v", ok)
	}
}

func TestRunAllAndFailed(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Socket = filepath.Join(base, "state", "turtile.sock")
	cfg.Autostart = []string{"clearly-not-present-binary"}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(&cfg)
	if Failed(results) {
		t.Fatalf("optional autostart failure should not fail the run: %#v", results)
	}

	cfg.Paths.LogDir = filepath.Join(base, "missing")
	if !Failed(RunAll(&cfg)) {
		t.Fatal("expected missing log directory to fail")
	}
}
