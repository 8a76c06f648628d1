package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"turtile/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "turtile", "config.toml")
	sock := testsupport.SocketPath(t)

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, sock, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[session]") {
		t.Fatalf("expected session section in sample, got:\n%s", data)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, sock, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	out, _, err = runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, sock, "")
	if err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	requireContains(t, out, target+".bak")
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, testsupport.WithWorkspaces("main", "code"))
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, path, cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, cfg.SocketPath(), path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Workspaces: main, code")
	requireContains(t, out, "Configuration valid")

	bad := filepath.Join(testsupport.BaseDir(cfg), "bad.toml")
	if err := os.WriteFile(bad, []byte("[session]\nworkspaces = [\"a b\"]\n"), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, cfg.SocketPath(), bad); err == nil {
		t.Fatal("expected whitespace workspace name to be rejected")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "session.workspaces")
	requireContains(t, out, "main, test")
	requireContains(t, out, env.socketPath)

	out, _, err = runCLI(t, []string{"config", "show", "--toml"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("config show --toml: %v", err)
	}
	requireContains(t, out, "[session]")
}
