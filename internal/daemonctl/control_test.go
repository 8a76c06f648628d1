package daemonctl_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"turtile/internal/daemon"
	"turtile/internal/daemonctl"
	"turtile/internal/ipc"
	"turtile/internal/testsupport"
)

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turtile.pid")
	if pid, err := daemonctl.ReadPID(path); err != nil || pid != 0 {
		t.Fatalf("expected missing pid file to read as 0, got %d err=%v", pid, err)
	}
	if err := daemonctl.WritePID(path); err != nil {
		t.Fatalf("WritePID failed: %v", err)
	}
	pid, err := daemonctl.ReadPID(path)
	if err != nil {
		t.Fatalf("ReadPID failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), pid)
	}
}

func TestForceKillRefusesSelf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turtile.pid")
	if err := daemonctl.WritePID(path); err != nil {
		t.Fatalf("WritePID failed: %v", err)
	}
	if _, err := daemonctl.ForceKillProcess(path, "", 0); err == nil {
		t.Fatal("expected refusal to kill the current process")
	}
}

func TestStopWithoutDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := daemonctl.StopAndTerminate(cfg.SocketPath(), cfg, 100*time.Millisecond)
	if !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
	alive, pid, err := daemonctl.ProcessInfo(cfg.SocketPath())
	if err != nil || alive || pid != 0 {
		t.Fatalf("expected no daemon, got alive=%v pid=%d err=%v", alive, pid, err)
	}
}

func TestStopSendsExit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, testsupport.NewDesktop(t, cfg), testsupport.MustOpenJournal(t, cfg), nil, "sess")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	srv, err := ipc.NewServer(ctx, cfg.SocketPath(), d, nil)
	if err != nil {
		t.Skipf("skipping IPC test: %v", err)
	}
	srv.Serve()
	go func() {
		<-d.Done()
		srv.Close()
		d.Close()
	}()

	alive, pid, err := daemonctl.ProcessInfo(cfg.SocketPath())
	if err != nil || !alive || pid != os.Getpid() {
		t.Fatalf("expected live daemon, got alive=%v pid=%d err=%v", alive, pid, err)
	}

	result, err := daemonctl.StopAndTerminate(cfg.SocketPath(), cfg, 2*time.Second)
	if err != nil {
		t.Fatalf("StopAndTerminate failed: %v", err)
	}
	if !result.StopAcknowledged || result.ForcedKill {
		t.Fatalf("unexpected stop result: %+v", result)
	}
	if _, err := os.Stat(cfg.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("expected socket to be removed, stat err=%v", err)
	}
}
