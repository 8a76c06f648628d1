package autostart_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"turtile/internal/autostart"
)

func TestStartRunsCommandsThroughShell(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	runner := autostart.NewRunner("/tmp/turtile-test.sock", nil)

	started, err := runner.Start(context.Background(), []string{
		"echo first >> " + out,
		"   ",
		"echo \"$" + autostart.SocketEnv + "\" >> " + out,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started != 2 {
		t.Fatalf("expected 2 commands started, got %d", started)
	}
	runner.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "first") {
		t.Fatalf("expected first command output, got %q", text)
	}
	if !strings.Contains(text, "/tmp/turtile-test.sock") {
		t.Fatalf("expected socket env in child, got %q", text)
	}
}

func TestStartNonZeroExitIsNotALaunchError(t *testing.T) {
	runner := autostart.NewRunner("", nil)
	started, err := runner.Start(context.Background(), []string{"exit 3"})
	if err != nil {
		t.Fatalf("expected launch to succeed, got %v", err)
	}
	if started != 1 {
		t.Fatalf("expected 1 command started, got %d", started)
	}
	runner.Wait()
}
