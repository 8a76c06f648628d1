package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"turtile/internal/daemon"
	"turtile/internal/desktop"
	"turtile/internal/logging"
)

const drainTimeout = time.Second

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: serverCtx}
	if err := rpcServer.RegisterName(ServiceName, srv); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
		conns:     make(map[net.Conn]struct{}),
	}, nil
}

// Path returns the socket location.
func (s *Server) Path() string {
	return s.path
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			if err := checkPeer(conn); err != nil {
				logging.WarnWithContext(s.logger, "peer rejected", "ipc_peer_rejected",
					logging.Error(err),
					logging.String(logging.FieldImpact, "connection closed without serving requests"))
				_ = conn.Close()
				continue
			}
			s.track(conn, true)
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				defer s.track(c, false)
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

func (s *Server) track(conn net.Conn, add bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
		return
	}
	delete(s.conns, conn)
}

// Close stops the server, drops open connections and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}

	// Let in-flight replies (such as the answer to exit) reach their
	// clients before idle connections are cut.
	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		s.connMu.Lock()
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.connMu.Unlock()
		<-drained
	}
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun turtile stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) requestContext() (context.Context, string) {
	id := uuid.NewString()
	return logging.WithRequestID(s.ctx, id), id
}

func (s *service) Execute(req ExecuteRequest, resp *ExecuteResponse) error {
	ctx, id := s.requestContext()
	s.logger.DebugContext(ctx, "execute requested", logging.Command(req.Line))
	result := s.daemon.Execute(ctx, req.Line)
	resp.Body = result.Body
	resp.OK = result.OK()
	resp.Exit = result.Exit
	resp.RequestID = id
	if result.Err != nil {
		resp.Kind = string(result.Err.Kind)
	}
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.SessionID = status.SessionID
	resp.StartedAt = status.StartedAt
	resp.ActiveWorkspace = status.ActiveWorkspace
	resp.WindowCount = status.WindowCount
	resp.FocusedWindow = status.FocusedWindow
	resp.JournalEntries = status.JournalEntries
	resp.JournalPath = status.JournalPath
	resp.LockPath = status.LockFilePath
	resp.LogPath = status.LogPath
	resp.Workspaces = make([]WorkspaceStatus, 0, len(status.Workspaces))
	for _, ws := range status.Workspaces {
		resp.Workspaces = append(resp.Workspaces, WorkspaceStatus{Name: ws.Name, Active: ws.Active})
	}
	return nil
}

func (s *service) MapWindow(req MapWindowRequest, resp *WindowResponse) error {
	ctx, _ := s.requestContext()
	w, err := s.daemon.MapWindow(ctx, req.App, req.Title)
	if err != nil {
		return err
	}
	resp.Window = toWire(w)
	return nil
}

func (s *service) UnmapWindow(req UnmapWindowRequest, resp *WindowResponse) error {
	ctx, _ := s.requestContext()
	w, err := s.daemon.UnmapWindow(ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Window = toWire(w)
	return nil
}

func (s *service) SetWindowTitle(req SetWindowTitleRequest, resp *WindowResponse) error {
	ctx, _ := s.requestContext()
	w, err := s.daemon.SetWindowTitle(ctx, req.ID, req.Title)
	if err != nil {
		return err
	}
	resp.Window = toWire(w)
	return nil
}

func (s *service) Journal(req JournalRequest, resp *JournalResponse) error {
	entries, err := s.daemon.Journal(s.ctx, req.Limit)
	if err != nil {
		return err
	}
	resp.Entries = make([]JournalEntry, 0, len(entries))
	for _, e := range entries {
		resp.Entries = append(resp.Entries, JournalEntry(e))
	}
	return nil
}

func toWire(w desktop.Window) Window {
	return Window{ID: w.ID, App: w.App, Title: w.Title, Workspace: w.Workspace}
}
