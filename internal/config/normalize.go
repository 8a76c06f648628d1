package config

import (
	"fmt"
	"strings"

	"turtile/internal/desktop"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSession()
	c.normalizeAutostart()
	c.normalizeKeybinds()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Socket) == "" {
		c.Paths.Socket = defaultSocketPath()
	}
	if c.Paths.Socket, err = expandPath(c.Paths.Socket); err != nil {
		return fmt.Errorf("paths.socket: %w", err)
	}
	return nil
}

func (c *Config) normalizeSession() {
	names := make([]string, 0, len(c.Session.Workspaces))
	for _, name := range c.Session.Workspaces {
		names = append(names, desktop.NormalizeName(name))
	}
	c.Session.Workspaces = names
	if c.Session.JournalLimit < 0 {
		c.Session.JournalLimit = 0
	}
}

func (c *Config) normalizeAutostart() {
	cmds := make([]string, 0, len(c.Autostart))
	for _, cmd := range c.Autostart {
		if trimmed := strings.TrimSpace(cmd); trimmed != "" {
			cmds = append(cmds, trimmed)
		}
	}
	c.Autostart = cmds
}

func (c *Config) normalizeKeybinds() {
	for i := range c.Keybinds {
		kb := &c.Keybinds[i]
		mods := make([]string, 0, len(kb.Mods))
		for _, mod := range kb.Mods {
			if m := strings.ToLower(strings.TrimSpace(mod)); m != "" {
				mods = append(mods, m)
			}
		}
		kb.Mods = mods
		kb.Key = strings.TrimSpace(kb.Key)
		kb.Cmd = strings.TrimSpace(kb.Cmd)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
