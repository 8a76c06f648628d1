package config

const (
	defaultConfigPath       = "~/.config/turtile/config.toml"
	defaultStateDir         = "~/.local/share/turtile"
	defaultLogDir           = "~/.local/share/turtile/logs"
	defaultWorkspace        = "main"
	defaultJournalLimit     = 1000
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			Socket:   defaultSocketPath(),
		},
		Session: Session{
			Workspaces:   []string{defaultWorkspace},
			JournalLimit: defaultJournalLimit,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
