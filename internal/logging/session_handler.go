package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one daemon run. It changes on every start so log
// lines from a restarted daemon can be told apart in a shared log file.
const FieldSessionID = "session_id"

// sessionHandler stamps every record with the daemon session id and, for
// records logged with a context, the control request id carried by that
// context. Loggers already tagged through WithContext keep their own id.
type sessionHandler struct {
	base       slog.Handler
	sessionID  string
	hasRequest bool
}

func newSessionHandler(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &sessionHandler{base: base, sessionID: sessionID}
}

func (h *sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.sessionID != "" {
		record.AddAttrs(slog.String(FieldSessionID, h.sessionID))
	}
	if !h.hasRequest {
		if id, ok := RequestIDFromContext(ctx); ok {
			record.AddAttrs(slog.String(FieldRequestID, id))
		}
	}
	return h.base.Handle(ctx, record)
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionHandler{
		base:       h.base.WithAttrs(attrs),
		sessionID:  h.sessionID,
		hasRequest: h.hasRequest || hasAttrKey(attrs, FieldRequestID),
	}
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	return &sessionHandler{
		base:       h.base.WithGroup(name),
		sessionID:  h.sessionID,
		hasRequest: h.hasRequest,
	}
}
