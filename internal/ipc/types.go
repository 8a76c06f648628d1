package ipc

import "time"

// ServiceName is the name the daemon registers with the RPC server.
const ServiceName = "Turtile"

// ExecuteRequest carries one command line for the command engine.
type ExecuteRequest struct {
	Line string `json:"line"`
}

// ExecuteResponse holds the rendered JSON body and its outcome.
type ExecuteResponse struct {
	Body      string `json:"body"`
	OK        bool   `json:"ok"`
	Kind      string `json:"kind,omitempty"`
	Exit      bool   `json:"exit"`
	RequestID string `json:"request_id"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// WorkspaceStatus mirrors one workspace in the status response.
type WorkspaceStatus struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running         bool              `json:"running"`
	PID             int               `json:"pid"`
	SessionID       string            `json:"session_id"`
	StartedAt       time.Time         `json:"started_at"`
	ActiveWorkspace string            `json:"active_workspace"`
	Workspaces      []WorkspaceStatus `json:"workspaces"`
	WindowCount     int               `json:"window_count"`
	FocusedWindow   string            `json:"focused_window,omitempty"`
	JournalEntries  int               `json:"journal_entries"`
	JournalPath     string            `json:"journal_path"`
	LockPath        string            `json:"lock_path"`
	LogPath         string            `json:"log_path"`
}

// Window is the wire form of a managed window.
type Window struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	Title     string `json:"title"`
	Workspace string `json:"workspace"`
}

// MapWindowRequest registers a new window on the active workspace.
type MapWindowRequest struct {
	App   string `json:"app"`
	Title string `json:"title"`
}

// UnmapWindowRequest removes a window.
type UnmapWindowRequest struct {
	ID string `json:"id"`
}

// SetWindowTitleRequest renames a window.
type SetWindowTitleRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WindowResponse returns the affected window.
type WindowResponse struct {
	Window Window `json:"window"`
}

// JournalRequest asks for the most recent journaled commands.
type JournalRequest struct {
	Limit int `json:"limit"`
}

// JournalEntry is the wire form of a journaled command.
type JournalEntry struct {
	ID         int64     `json:"id"`
	ExecutedAt time.Time `json:"executed_at"`
	SessionID  string    `json:"session_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Command    string    `json:"command"`
	OK         bool      `json:"ok"`
	Kind       string    `json:"kind,omitempty"`
	Response   string    `json:"response"`
}

// JournalResponse lists journal entries newest first.
type JournalResponse struct {
	Entries []JournalEntry `json:"entries"`
}
