package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"turtile/internal/autostart"
	"turtile/internal/command"
	"turtile/internal/config"
	"turtile/internal/ipc"
	"turtile/internal/termui"
)

// errCommandFailed marks an error payload that has already been printed.
var errCommandFailed = errors.New("command failed")

func newRootCommand() *cobra.Command {
	var (
		jsonOutput bool
		socketFlag string
		configFlag string
	)

	rootCmd := &cobra.Command{
		Use:   "ttcli [--json] [--socket PATH] <command> [args...]",
		Short: "Send a command to the turtile daemon",
		Long: "Send a command to the turtile daemon.\n\nCommands:\n  " +
			strings.Join(command.Usage(), "\n  "),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			socket := resolveSocket(socketFlag, configFlag)
			client, err := ipc.Dial(socket)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Execute(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("execute: %w", err)
			}

			stdout := cmd.OutOrStdout()
			if jsonOutput {
				fmt.Fprintln(stdout, resp.Body)
			} else {
				out := stdout
				if !resp.OK {
					out = cmd.ErrOrStderr()
				}
				if err := renderHuman(out, resp.Body, termui.ShouldColorize(out)); err != nil {
					return err
				}
			}
			if !resp.OK {
				return errCommandFailed
			}
			return nil
		},
	}
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw JSON reply")
	rootCmd.Flags().StringVar(&socketFlag, "socket", "", "Path to the turtile daemon socket")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file used to locate the socket")
	return rootCmd
}

// resolveSocket picks the socket from the flag, the environment exported to
// autostarted programs, the config file, then the built-in default.
func resolveSocket(flagValue, configPath string) string {
	if socket := strings.TrimSpace(flagValue); socket != "" {
		return socket
	}
	if socket := strings.TrimSpace(os.Getenv(autostart.SocketEnv)); socket != "" {
		return socket
	}
	cfg, _, _, err := config.Load(strings.TrimSpace(configPath))
	if err == nil {
		return cfg.SocketPath()
	}
	def := config.Default()
	return def.SocketPath()
}
