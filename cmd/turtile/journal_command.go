package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"turtile/internal/ipc"
	"turtile/internal/journal"
	"turtile/internal/termui"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	var offline bool
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recently executed commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadJournal(cmd.Context(), ctx, limit, offline)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Journal is empty")
				return nil
			}
			colorize := termui.ShouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				result := termui.Colored("ok", termui.OK, colorize)
				if !e.OK {
					result = termui.Colored(e.Kind, termui.Error, colorize)
				}
				rows = append(rows, []string{
					fmt.Sprint(e.ID),
					e.ExecutedAt.Local().Format(time.DateTime),
					e.Command,
					result,
				})
			}
			fmt.Fprint(out, termui.RenderTable(
				[]string{"ID", "Time", "Command", "Result"},
				rows,
				[]termui.Alignment{termui.AlignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.Flags().BoolVar(&offline, "offline", false, "Read the journal database directly instead of asking the daemon")
	return cmd
}

// loadJournal asks the daemon for entries, or reads the database directly
// when requested or when the daemon is not running.
func loadJournal(runCtx context.Context, ctx *commandContext, limit int, offline bool) ([]ipc.JournalEntry, error) {
	if !offline {
		client, err := ipc.Dial(ctx.socketPath())
		if err == nil {
			defer client.Close()
			resp, err := client.Journal(limit)
			if err != nil {
				return nil, err
			}
			return resp.Entries, nil
		}
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg.JournalPath(), 0)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	entries, err := store.Recent(runCtx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.JournalEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ipc.JournalEntry(e))
	}
	return out, nil
}
