package desktop

import "errors"

var (
	// ErrNotFound reports an unknown workspace name or window id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName reports a workspace name that cannot be used as a command token.
	ErrInvalidName = errors.New("invalid workspace name")
	// ErrDuplicate reports a workspace name that is already registered.
	ErrDuplicate = errors.New("duplicate workspace")
	// ErrNoWorkspaces reports an attempt to build a store without workspaces.
	ErrNoWorkspaces = errors.New("at least one workspace is required")
	// ErrNoFocus reports that the active workspace has no focused window.
	ErrNoFocus = errors.New("no focused window")
	// ErrEmptyWorkspace reports a focus cycle on a workspace without windows.
	ErrEmptyWorkspace = errors.New("workspace is empty")
	// ErrSingleWindow reports a focus cycle on a workspace with one window.
	ErrSingleWindow = errors.New("only one window open")
	// ErrAlreadyMaster reports a master toggle with no other window to promote.
	ErrAlreadyMaster = errors.New("window is already master")
)
