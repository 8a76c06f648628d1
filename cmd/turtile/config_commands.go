package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"turtile/internal/config"
	"turtile/internal/fileutil"
	"turtile/internal/termui"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			} else {
				backup, err := fileutil.Backup(target)
				if err != nil {
					return err
				}
				if backup != "" {
					fmt.Fprintf(out, "Previous configuration saved to %s\n", backup)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit session.workspaces and autostart, then run `turtile start`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Workspaces: %s\n", strings.Join(cfg.Session.Workspaces, ", "))
			fmt.Fprintf(out, "Keybinds: %d, autostart commands: %d\n", len(cfg.Keybinds), len(cfg.Autostart))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var asTOML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asTOML {
				data, err := config.Encode(cfg)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			rows := [][]string{
				{"paths.state_dir", cfg.Paths.StateDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.socket", cfg.SocketPath()},
				{"session.workspaces", strings.Join(cfg.Session.Workspaces, ", ")},
				{"session.restore_workspace", termui.YesNo(cfg.Session.RestoreWorkspace)},
				{"session.journal_limit", fmt.Sprint(cfg.Session.JournalLimit)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"logging.retention_days", fmt.Sprint(cfg.Logging.RetentionDays)},
			}
			for i, line := range cfg.Autostart {
				rows = append(rows, []string{fmt.Sprintf("autostart[%d]", i), line})
			}
			fmt.Fprint(out, termui.RenderTable([]string{"Key", "Value"}, rows, nil))

			if len(cfg.Keybinds) > 0 {
				binds := make([][]string, 0, len(cfg.Keybinds))
				for _, kb := range cfg.Keybinds {
					chord := append(append([]string(nil), kb.Mods...), kb.Key)
					binds = append(binds, []string{strings.Join(chord, "+"), kb.Cmd})
				}
				fmt.Fprint(out, termui.RenderTable([]string{"Keybind", "Command"}, binds, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print the configuration as TOML")
	return cmd
}
