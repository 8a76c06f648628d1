package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"turtile/internal/daemonctl"
	"turtile/internal/ipc"
	"turtile/internal/termui"
)

const (
	stopGracePeriod  = 5 * time.Second
	startWaitTimeout = 10 * time.Second
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	var startLogLevel string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the turtile daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx, startLogLevel),
				startWaitTimeout,
			)
			if err != nil {
				return err
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(stdout, "Daemon started (pid %d)\n", result.PID)
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "", "Override logging.level for the launched daemon")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the turtile daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), stopGracePeriod)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Exit request sent")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := termui.ShouldColorize(stdout)

			var status *ipc.StatusResponse
			client, err := ipc.Dial(ctx.socketPath())
			if err == nil {
				status, err = client.Status()
				client.Close()
			}
			if err != nil && !errors.Is(err, ipc.ErrDaemonUnavailable) {
				return err
			}
			renderStatus(stdout, ctx, status, colorize)
			return nil
		},
	}

	var restartLogLevel string
	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the turtile daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx, restartLogLevel),
				stopGracePeriod,
				startWaitTimeout,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}
			fmt.Fprintln(stdout, "Daemon restarted")
			return nil
		},
	}
	restartCmd.Flags().StringVar(&restartLogLevel, "log-level", "", "Override logging.level for the launched daemon")

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func renderStatus(w io.Writer, ctx *commandContext, status *ipc.StatusResponse, colorize bool) {
	for _, line := range termui.SectionHeader("System Status", colorize) {
		fmt.Fprintln(w, line)
	}
	if status == nil || !status.Running {
		detail := "Not running (run `turtile start`)"
		if status != nil {
			detail = "Exiting"
		}
		fmt.Fprintln(w, termui.StatusLine("turtile", termui.Warn, detail, colorize))
		fmt.Fprintln(w, termui.StatusLine("Socket", termui.Info, ctx.socketPath(), colorize))
		if cfg := ctx.configValue(); cfg != nil {
			fmt.Fprintln(w, termui.StatusLine("Journal", termui.Info, cfg.JournalPath(), colorize))
		}
		return
	}

	uptime := ""
	if !status.StartedAt.IsZero() {
		uptime = ", up " + time.Since(status.StartedAt).Round(time.Second).String()
	}
	fmt.Fprintln(w, termui.StatusLine("turtile", termui.OK, fmt.Sprintf("Running (pid %d%s)", status.PID, uptime), colorize))
	fmt.Fprintln(w, termui.StatusLine("Socket", termui.Info, ctx.socketPath(), colorize))
	fmt.Fprintln(w, termui.StatusLine("Session", termui.Info, status.SessionID, colorize))
	fmt.Fprintln(w, termui.StatusLine("Journal", termui.Info,
		fmt.Sprintf("%d entries (%s)", status.JournalEntries, status.JournalPath), colorize))
	fmt.Fprintln(w, termui.StatusLine("Log", termui.Info, status.LogPath, colorize))
	fmt.Fprintln(w)

	for _, line := range termui.SectionHeader("Workspaces", colorize) {
		fmt.Fprintln(w, line)
	}
	rows := make([][]string, 0, len(status.Workspaces))
	for _, ws := range status.Workspaces {
		rows = append(rows, []string{ws.Name, termui.YesNo(ws.Active)})
	}
	fmt.Fprint(w, termui.RenderTable([]string{"Workspace", "Active"}, rows, nil))
	focused := status.FocusedWindow
	if strings.TrimSpace(focused) == "" {
		focused = "none"
	}
	fmt.Fprintf(w, "Windows: %d, focused: %s\n", status.WindowCount, focused)
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext, logLevel string) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{LogLevel: strings.TrimSpace(logLevel)}
	if socket := ctx.socketOverride(); socket != "" {
		opts.SocketPath = socket
	}
	if cfg := ctx.configFlagValue(); cfg != "" {
		opts.ConfigPath = cfg
	}
	return opts
}
