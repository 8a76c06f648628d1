// Package daemonrun wires the daemon, its IPC server and the session helpers
// into the foreground runtime started by `turtile daemon`.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"turtile/internal/autostart"
	"turtile/internal/config"
	"turtile/internal/configwatch"
	"turtile/internal/daemon"
	"turtile/internal/daemonctl"
	"turtile/internal/desktop"
	"turtile/internal/ipc"
	"turtile/internal/journal"
	"turtile/internal/logging"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// ConfigPath is the file watched for live reloads. Empty or missing
	// files disable the watcher.
	ConfigPath string
	LogLevel   string
	// Startup is an extra shell command run after the autostart list.
	Startup string
	// Ready, when set, is called once the socket is serving.
	Ready func(socketPath string)
}

// keepRunLogs is how many rotated run logs survive retention regardless of age.
const keepRunLogs = 3

// Run starts the turtile daemon runtime loop. It returns after an exit
// command, SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if strings.TrimSpace(opts.LogLevel) != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if alive, pid, _ := daemonctl.ProcessInfo(cfg.SocketPath()); alive {
		return fmt.Errorf("turtile is already running (pid %d) on %s", pid, cfg.SocketPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	rotated := rotateLog(cfg.LogPath())

	sessionID := uuid.NewString()
	logger, err := logging.NewFromConfig(cfg, sessionID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if rotated != "" {
		logger.Debug("previous log rotated", logging.String("path", rotated))
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "turtile-*.log", Keep: keepRunLogs},
	)

	j, err := journal.Open(cfg.JournalPath(), cfg.Session.JournalLimit)
	if err != nil {
		logging.ErrorWithContext(logger, "open command journal", "journal_open_failed",
			logging.Error(err),
			logging.String("path", cfg.JournalPath()),
			logging.String(logging.FieldErrorHint, "move the journal aside if the schema version changed"))
		return err
	}

	store, err := desktop.New(cfg.Session.Workspaces)
	if err != nil {
		_ = j.Close()
		return fmt.Errorf("create desktop: %w", err)
	}

	d, err := daemon.New(cfg, store, j, logger, sessionID)
	if err != nil {
		_ = j.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	pidPath := cfg.PIDPath()
	if err := daemonctl.WritePID(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	socketPath := cfg.SocketPath()
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("turtile ready",
		logging.String(logging.FieldEventType, "daemon_ready"),
		logging.String("socket", socketPath),
		logging.Int("workspaces", len(cfg.Session.Workspaces)),
	)
	if opts.Ready != nil {
		opts.Ready(socketPath)
	}

	runner := autostart.NewRunner(socketPath, logger)
	cmds := append([]string(nil), cfg.Autostart...)
	if strings.TrimSpace(opts.Startup) != "" {
		cmds = append(cmds, opts.Startup)
	}
	if len(cmds) > 0 {
		_, _ = runner.Start(signalCtx, cmds)
	}

	watchCtx, stopWatch := context.WithCancel(signalCtx)
	defer stopWatch()
	startWatcher(watchCtx, opts.ConfigPath, d, logger)

	select {
	case <-d.Done():
		logger.Info("turtile exiting on request", logging.Duration("uptime", time.Since(d.Status(cmdCtx).StartedAt)))
	case <-signalCtx.Done():
		logger.Info("turtile shutting down on signal", logging.Duration("uptime", time.Since(d.Status(cmdCtx).StartedAt)))
	}
	return nil
}

func startWatcher(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		logger.Debug("config watcher disabled", logging.String("path", path))
		return
	}
	watcher := configwatch.New(path, d, logger)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logging.WarnWithContext(logger, "config watcher stopped", "config_watch_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "config changes apply only after restart"))
		}
	}()
}

// rotateLog renames an existing log file to turtile-<mtime>.log so each run
// starts fresh and retention can prune old runs.
func rotateLog(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return ""
	}
	stamp := info.ModTime().UTC().Format("20060102T150405.000Z")
	target := filepath.Join(filepath.Dir(path), fmt.Sprintf("turtile-%s.log", stamp))
	if err := os.Rename(path, target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return target
}

