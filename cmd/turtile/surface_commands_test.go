package main

import (
	"encoding/json"
	"strings"
	"testing"

	"turtile/internal/ipc"
)

func TestSurfaceLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"surface", "map", "--app", "foot", "--json", "shell"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("surface map: %v", err)
	}
	var w ipc.Window
	if err := json.Unmarshal([]byte(out), &w); err != nil {
		t.Fatalf("decode window: %v\n%s", err, out)
	}
	if w.ID != "w1" || w.App != "foot" || w.Title != "shell" || w.Workspace != "main" {
		t.Fatalf("unexpected window: %+v", w)
	}

	out, _, err = runCLI(t, []string{"surface", "title", w.ID, "vim"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("surface title: %v", err)
	}
	requireContains(t, out, "vim")

	if _, _, err := runCLI(t, []string{"surface", "unmap", w.ID}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("surface unmap: %v", err)
	}
	_, _, err = runCLI(t, []string{"surface", "unmap", w.ID}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestJournalCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	client, err := ipc.Dial(env.socketPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	for _, line := range []string{"workspace list", "workspace switch nope"} {
		if _, err := client.Execute(line); err != nil {
			t.Fatalf("Execute %q: %v", line, err)
		}
	}

	out, _, err := runCLI(t, []string{"journal"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	requireContains(t, out, "workspace switch nope")
	requireContains(t, out, "not_found")

	out, _, err = runCLI(t, []string{"journal", "--offline", "--json", "-n", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("journal --offline: %v", err)
	}
	var entries []ipc.JournalEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode entries: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Command != "workspace switch nope" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
