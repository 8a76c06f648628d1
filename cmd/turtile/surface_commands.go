package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"turtile/internal/ipc"
)

// newSurfaceCommand exposes the window bridge a compositor backend uses to
// report mapped, unmapped and retitled toplevels.
func newSurfaceCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	surfaceCmd := &cobra.Command{
		Use:   "surface",
		Short: "Report window lifecycle events to the daemon",
	}
	surfaceCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print the affected window as JSON")

	var app string
	mapCmd := &cobra.Command{
		Use:   "map <title>",
		Short: "Register a new window on the active workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.MapWindow(app, args[0])
				if err != nil {
					return err
				}
				return printWindow(cmd, resp.Window, jsonOutput)
			})
		},
	}
	mapCmd.Flags().StringVar(&app, "app", "", "Application id of the window")

	unmapCmd := &cobra.Command{
		Use:   "unmap <id>",
		Short: "Remove a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UnmapWindow(args[0])
				if err != nil {
					return err
				}
				return printWindow(cmd, resp.Window, jsonOutput)
			})
		},
	}

	titleCmd := &cobra.Command{
		Use:   "title <id> <title>",
		Short: "Change a window title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SetWindowTitle(args[0], args[1])
				if err != nil {
					return err
				}
				return printWindow(cmd, resp.Window, jsonOutput)
			})
		},
	}

	surfaceCmd.AddCommand(mapCmd, unmapCmd, titleCmd)
	return surfaceCmd
}

func printWindow(cmd *cobra.Command, w ipc.Window, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, w)
	}
	writeWindowLine(cmd.OutOrStdout(), w)
	return nil
}

func writeWindowLine(out io.Writer, w ipc.Window) {
	fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", w.ID, w.Workspace, w.App, w.Title)
}
