package command

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"turtile/internal/desktop"
	"turtile/internal/logging"
)

// Response is the outcome of one command line.
type Response struct {
	// Body is the JSON payload written back to the client.
	Body string
	// Err is set when the command was rejected; Body then holds its rendering.
	Err *Error
	// Exit reports that the command asked the daemon to terminate.
	Exit bool
}

// OK reports whether the command succeeded.
func (r Response) OK() bool { return r.Err == nil }

func success(message string) Response {
	return Response{Body: successBody(message)}
}

func failure(err *Error) Response {
	return Response{Body: errorBody(err), Err: err}
}

// Engine parses command lines and applies them to a desktop store. Commands
// run one at a time, so every response reflects a state no other command was
// halfway through changing.
type Engine struct {
	mu      sync.Mutex
	store   *desktop.Store
	logger  *slog.Logger
	exiting bool
}

// NewEngine builds an engine over store.
func NewEngine(store *desktop.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logging.NewComponentLogger(logger, "command"),
	}
}

// Exiting reports whether an exit command has been processed.
func (e *Engine) Exiting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exiting
}

// Execute runs a single command line and returns its rendered response.
func (e *Engine) Execute(ctx context.Context, line string) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return failure(newError(KindInvalidState, "request cancelled: %v", err))
		}
	}
	if e.exiting {
		return failure(newError(KindInvalidState, "turtile is exiting"))
	}

	tokens := strings.Fields(line)
	resp := e.dispatch(tokens)
	if resp.Exit {
		e.exiting = true
	}

	logger := logging.WithContext(ctx, e.logger)
	if resp.Err != nil {
		logger.Info("command rejected",
			logging.String(logging.FieldEventType, "command_rejected"),
			logging.String("command", strings.Join(tokens, " ")),
			logging.String("kind", string(resp.Err.Kind)),
			logging.String("reason", resp.Err.Message),
		)
	} else {
		logger.Debug("command executed",
			logging.String(logging.FieldEventType, "command_executed"),
			logging.String("command", strings.Join(tokens, " ")),
		)
	}
	return resp
}

func (e *Engine) dispatch(tokens []string) Response {
	if len(tokens) == 0 {
		return failure(newError(KindInvalidCommand, "empty command"))
	}
	verbKnown := false
	for _, c := range commands {
		if c.verb != tokens[0] {
			continue
		}
		verbKnown = true
		if c.subverb == "" {
			return c.run(e, tokens[1:])
		}
		if len(tokens) > 1 && tokens[1] == c.subverb {
			return c.run(e, tokens[2:])
		}
	}
	if verbKnown {
		if len(tokens) == 1 {
			return failure(newError(KindInvalidCommand, "missing subcommand: usage %s", usage(tokens[0])))
		}
		return failure(newError(KindInvalidCommand, "unknown command %s: usage %s", strings.Join(tokens, " "), usage(tokens[0])))
	}
	return failure(newError(KindInvalidCommand, "unknown command %s", strings.Join(tokens, " ")))
}
