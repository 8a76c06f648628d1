package daemon_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"turtile/internal/config"
	"turtile/internal/daemon"
	"turtile/internal/journal"
	"turtile/internal/logging"
	"turtile/internal/testsupport"
)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	store := testsupport.NewDesktop(t, cfg)
	j := testsupport.MustOpenJournal(t, cfg)
	d, err := daemon.New(cfg, store, j, logging.NewNop(), "sess-test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.ActiveWorkspace != "main" || len(status.Workspaces) != 2 {
		t.Fatalf("unexpected status: %+v", status)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to be rejected by the lock")
	}
	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second Start after release failed: %v", err)
	}
}

func TestExecuteJournalsCommands(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	ctx := logging.WithRequestID(context.Background(), "req-42")

	if resp := d.Execute(ctx, "workspace  switch test"); !resp.OK() {
		t.Fatalf("switch failed: %s", resp.Body)
	}
	if resp := d.Execute(ctx, "workspace switch nowhere"); resp.OK() {
		t.Fatalf("expected failure, got %s", resp.Body)
	}

	entries, err := d.Journal(ctx, 10)
	if err != nil {
		t.Fatalf("Journal failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(entries))
	}
	if entries[0].OK || entries[0].Kind != "not_found" {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Command != "workspace switch test" || entries[1].RequestID != "req-42" || entries[1].SessionID != "sess-test" {
		t.Fatalf("unexpected oldest entry: %+v", entries[1])
	}
}

func TestRestoreWorkspaceAcrossRestart(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRestoreWorkspace(true))
	ctx := context.Background()

	first := newDaemon(t, cfg)
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if resp := first.Execute(ctx, "workspace switch test"); !resp.OK() {
		t.Fatalf("switch failed: %s", resp.Body)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := newDaemon(t, cfg)
	if err := second.Start(ctx); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if got := second.Status(ctx).ActiveWorkspace; got != "test" {
		t.Fatalf("expected restored workspace test, got %q", got)
	}
}

func TestExitClosesDone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	ctx := context.Background()

	if _, err := d.MapWindow(ctx, "foot", "shell"); err != nil {
		t.Fatalf("MapWindow failed: %v", err)
	}
	resp := d.Execute(ctx, "exit")
	if !resp.OK() || !resp.Exit {
		t.Fatalf("unexpected exit response: %+v", resp)
	}

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("expected Done to be closed after exit")
	}

	if resp := d.Execute(ctx, "workspace list"); resp.OK() {
		t.Fatalf("expected commands to fail after exit, got %s", resp.Body)
	}
	if _, err := d.MapWindow(ctx, "foot", "late"); err != daemon.ErrExiting {
		t.Fatalf("expected ErrExiting, got %v", err)
	}
}

func TestWindowBridge(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	ctx := context.Background()

	w, err := d.MapWindow(ctx, "weston-simple-egl", "simple-egl")
	if err != nil {
		t.Fatalf("MapWindow failed: %v", err)
	}
	if w.Workspace != "main" {
		t.Fatalf("expected window on main, got %+v", w)
	}
	if _, err := d.SetWindowTitle(ctx, w.ID, "renamed"); err != nil {
		t.Fatalf("SetWindowTitle failed: %v", err)
	}
	resp := d.Execute(ctx, "window list")
	if resp.Body != `[ { "title": "renamed", "workspace": "main" } ]` {
		t.Fatalf("unexpected window list: %s", resp.Body)
	}
	if _, err := d.UnmapWindow(ctx, w.ID); err != nil {
		t.Fatalf("UnmapWindow failed: %v", err)
	}
	if _, err := d.UnmapWindow(ctx, w.ID); err == nil {
		t.Fatal("expected second unmap to fail")
	}
	if status := d.Status(ctx); status.WindowCount != 0 {
		t.Fatalf("expected no windows, got %d", status.WindowCount)
	}
}

func TestApplyConfigAddsWorkspaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)

	next := *cfg
	next.Session.Workspaces = []string{"main", "code", "test", "web"}
	added := d.ApplyConfig(&next)
	if len(added) != 2 || added[0] != "code" || added[1] != "web" {
		t.Fatalf("unexpected added workspaces: %v", added)
	}
	if again := d.ApplyConfig(&next); len(again) != 0 {
		t.Fatalf("expected idempotent apply, got %v", again)
	}

	resp := d.Execute(context.Background(), "workspace switch web")
	if resp.Body != `{"success": "switch to workspace web"}` {
		t.Fatalf("unexpected switch response: %s", resp.Body)
	}
}

func TestConcurrentExecutePersistsActiveWorkspace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	j := testsupport.MustOpenJournal(t, cfg)
	d, err := daemon.New(cfg, testsupport.NewDesktop(t, cfg), j, logging.NewNop(), "sess-race")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx := context.Background()
	lines := []string{"workspace switch main", "workspace switch test", "workspace list"}

	const (
		rounds  = 25
		clients = 24
	)
	for round := range rounds {
		var wg sync.WaitGroup
		for i := range clients {
			wg.Add(1)
			go func(line string) {
				defer wg.Done()
				d.Execute(ctx, line)
			}(lines[(round+i)%len(lines)])
		}
		wg.Wait()

		saved, ok, err := j.Value(ctx, journal.KeyActiveWorkspace)
		if err != nil {
			t.Fatalf("round %d: Value: %v", round, err)
		}
		if !ok {
			saved = "main"
		}
		if active := d.Status(ctx).ActiveWorkspace; saved != active {
			t.Fatalf("round %d: saved workspace %q, active %q", round, saved, active)
		}
	}
}

func TestNoWindowMappedAfterExit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	ctx := context.Background()

	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for {
				if _, err := d.MapWindow(ctx, "foot", "shell"); err != nil {
					if !errors.Is(err, daemon.ErrExiting) {
						t.Errorf("MapWindow: %v", err)
					}
					return
				}
			}
		}()
	}

	close(start)
	time.Sleep(10 * time.Millisecond)
	if resp := d.Execute(ctx, "exit"); !resp.Exit {
		t.Fatalf("exit not accepted: %s", resp.Body)
	}
	atExit := d.Status(ctx).WindowCount
	wg.Wait()

	if after := d.Status(ctx).WindowCount; after != atExit {
		t.Fatalf("%d windows mapped after exit was accepted", after-atExit)
	}
}
