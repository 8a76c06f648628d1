package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"turtile/internal/preflight"
	"turtile/internal/termui"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, binaries and keybinds for the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := termui.ShouldColorize(out)

			results := preflight.RunAll(cfg)
			for _, line := range termui.SectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				kind := termui.OK
				switch {
				case !r.Passed && r.Optional:
					kind = termui.Warn
				case !r.Passed:
					kind = termui.Error
				}
				fmt.Fprintln(out, termui.StatusLine(r.Name, kind, r.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
