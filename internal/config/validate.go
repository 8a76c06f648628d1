package config

import (
	"errors"
	"fmt"
	"strings"

	"turtile/internal/desktop"
)

var keybindMods = map[string]struct{}{
	"shift": {},
	"ctrl":  {},
	"alt":   {},
	"logo":  {},
	"super": {},
	"caps":  {},
	"mod2":  {},
	"mod3":  {},
	"mod5":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateKeybinds(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.Socket) == "" {
		return errors.New("paths.socket must be set")
	}
	return nil
}

func (c *Config) validateSession() error {
	if len(c.Session.Workspaces) == 0 {
		return errors.New("session.workspaces must list at least one workspace")
	}
	seen := make(map[string]struct{}, len(c.Session.Workspaces))
	for i, name := range c.Session.Workspaces {
		if err := desktop.ValidateName(name); err != nil {
			return fmt.Errorf("session.workspaces[%d]: %w", i, err)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("session.workspaces[%d]: %q is listed twice", i, name)
		}
		seen[name] = struct{}{}
	}
	if c.Session.JournalLimit < 0 {
		return errors.New("session.journal_limit must be >= 0")
	}
	return nil
}

func (c *Config) validateKeybinds() error {
	for i, kb := range c.Keybinds {
		for _, mod := range kb.Mods {
			if _, ok := keybindMods[mod]; !ok {
				return fmt.Errorf("keybinds[%d].mods: unknown modifier %q", i, mod)
			}
		}
		if kb.Key == "" {
			return fmt.Errorf("keybinds[%d].key must be set", i)
		}
		if kb.Cmd == "" {
			return fmt.Errorf("keybinds[%d].cmd must be set", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}
