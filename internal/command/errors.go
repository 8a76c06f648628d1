package command

import (
	"errors"
	"fmt"

	"turtile/internal/desktop"
)

// Kind classifies a rejected command.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidCommand  Kind = "invalid_command"
	KindMissingArgument Kind = "missing_argument"
	KindInvalidState    Kind = "invalid_state"
)

// Error is the typed failure carried in an error response.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// storeError maps desktop sentinels onto command errors. subject names the
// thing that was looked up, e.g. "window 3f2a".
func storeError(err error, subject string) *Error {
	switch {
	case errors.Is(err, desktop.ErrNotFound):
		return newError(KindNotFound, "%s not found", subject)
	case errors.Is(err, desktop.ErrEmptyWorkspace):
		return newError(KindInvalidState, "workspace is empty")
	case errors.Is(err, desktop.ErrSingleWindow):
		return newError(KindInvalidState, "only one window open")
	case errors.Is(err, desktop.ErrNoFocus):
		return newError(KindInvalidState, "no focused window")
	case errors.Is(err, desktop.ErrAlreadyMaster):
		return newError(KindInvalidState, "the current window is already master")
	case errors.Is(err, desktop.ErrInvalidName):
		return newError(KindInvalidCommand, "%v", err)
	default:
		return newError(KindInvalidState, "%v", err)
	}
}
