// Package config loads, normalizes, and validates turtile configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and environment variables), reads TOML files, and resolves the
// control socket location from XDG_RUNTIME_DIR. The Config type centralizes
// the workspace set, autostart commands and daemon paths so the daemon and
// both CLIs agree on where the socket and state live.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical workspace names, and clear validation errors.
package config
