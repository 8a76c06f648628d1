// Package logging assembles the structured slog loggers used by the turtile
// daemon and CLIs.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// standard field keys (component, event_type, error_hint, impact). Requests
// arriving on the control socket carry an id in their context so every line
// logged while serving them can be correlated; each daemon run adds its own
// session_id. A no-op logger is provided for tests and wiring code.
package logging
