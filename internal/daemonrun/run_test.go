package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"turtile/internal/daemonrun"
	"turtile/internal/ipc"
	"turtile/internal/testsupport"
)

func TestRunServesUntilExit(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "autostart.txt")
	cfg := testsupport.NewConfig(t, testsupport.WithAutostart("echo \"$TURTILE_SOCKET\" > "+marker))

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(context.Background(), cfg, daemonrun.Options{
			Ready: func(socket string) { ready <- socket },
		})
	}()

	var socket string
	select {
	case socket = <-ready:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not become ready")
	}

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	resp, err := client.Execute("workspace list")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Body != `[ { "name": "main", "active": true }, { "name": "test", "active": false } ]` {
		t.Fatalf("unexpected workspace list: %s", resp.Body)
	}
	if _, err := os.Stat(cfg.PIDPath()); err != nil {
		t.Fatalf("expected pid file while running: %v", err)
	}

	if resp, err := client.Execute("exit"); err != nil || !resp.Exit {
		t.Fatalf("exit failed: resp=%+v err=%v", resp, err)
	}
	client.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after exit")
	}

	if _, err := os.Stat(socket); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed, stat err=%v", err)
	}
	if _, err := os.Stat(cfg.PIDPath()); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, stat err=%v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(marker); err == nil && strings.TrimSpace(string(data)) == socket {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected autostart command to see the socket path")
}

func TestRunRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ready := make(chan string, 1)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{Ready: func(s string) { ready <- s }})
	}()
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("first daemon did not become ready")
	}

	second := *cfg
	second.Paths.Socket = testsupport.SocketPath(t)
	if err := daemonrun.Run(context.Background(), &second, daemonrun.Options{}); err == nil {
		t.Fatal("expected second daemon to fail on the lock")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first daemon did not stop on cancel")
	}
}
