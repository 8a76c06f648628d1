// Package autostart launches the configured session programs once the
// control socket is serving.
package autostart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"turtile/internal/logging"
)

// SocketEnv is exported to launched programs so ttcli finds the daemon.
const SocketEnv = "TURTILE_SOCKET"

const defaultShell = "/bin/sh"

// Runner starts shell commands and reaps them in the background.
type Runner struct {
	shell  string
	env    []string
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner builds a runner whose children see socketPath in SocketEnv.
func NewRunner(socketPath string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	env := os.Environ()
	if strings.TrimSpace(socketPath) != "" {
		env = append(env, SocketEnv+"="+socketPath)
	}
	return &Runner{
		shell:  defaultShell,
		env:    env,
		logger: logging.NewComponentLogger(logger, "autostart"),
	}
}

// Start launches each command through the shell with -c. A command that
// fails to start is logged and skipped; the returned error joins them all.
func (r *Runner) Start(ctx context.Context, cmds []string) (int, error) {
	started := 0
	var errs []error
	for _, line := range cmds {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := r.launch(ctx, line); err != nil {
			logging.WarnWithContext(r.logger, "autostart command failed to launch", "autostart_launch_failed",
				logging.Command(line),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the autostart entry in the config file"))
			errs = append(errs, fmt.Errorf("%s: %w", line, err))
			continue
		}
		started++
	}
	return started, errors.Join(errs...)
}

func (r *Runner) launch(ctx context.Context, line string) error {
	cmd := exec.Command(r.shell, "-c", line)
	cmd.Env = r.env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	logging.WithContext(ctx, r.logger).Info("autostart command launched",
		logging.String(logging.FieldEventType, "autostart_launched"),
		logging.Command(line),
		logging.Int("pid", cmd.Process.Pid),
	)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := cmd.Wait()
		attrs := []logging.Attr{logging.Command(line), logging.Int("pid", cmd.Process.Pid)}
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			r.logger.Debug("autostart command exited", logging.Args(attrs...)...)
		case errors.As(err, &exitErr):
			r.logger.Info("autostart command exited with error",
				logging.Args(append(attrs, logging.Int("exit_code", exitErr.ExitCode()))...)...)
		default:
			r.logger.Warn("autostart command wait failed", logging.Args(append(attrs, logging.Error(err))...)...)
		}
	}()
	return nil
}

// Wait blocks until every launched command has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}
