package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"turtile/internal/command"
	"turtile/internal/config"
	"turtile/internal/desktop"
	"turtile/internal/journal"
	"turtile/internal/logging"
)

// ErrExiting is returned by bridge calls made after an exit command.
var ErrExiting = errors.New("turtile is exiting")

// Daemon owns the desktop store and serializes access to it.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *desktop.Store
	engine    *command.Engine
	journal   *journal.Store
	sessionID string
	startedAt time.Time

	lockPath string
	lock     *flock.Flock

	// mu orders commands and bridge calls so the journal and the persisted
	// active workspace follow the same sequence as the store.
	mu sync.Mutex

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	cfgMu    sync.Mutex
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	SessionID       string
	StartedAt       time.Time
	ActiveWorkspace string
	Workspaces      []desktop.Workspace
	WindowCount     int
	FocusedWindow   string
	JournalEntries  int
	JournalPath     string
	LockFilePath    string
	LogPath         string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *desktop.Store, j *journal.Store, logger *slog.Logger, sessionID string) (*Daemon, error) {
	if cfg == nil || store == nil || j == nil {
		return nil, errors.New("daemon requires config, desktop store, and journal")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		engine:    command.NewEngine(store, logger),
		journal:   j,
		sessionID: sessionID,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		done:      make(chan struct{}),
	}, nil
}

// Start acquires the daemon lock and restores the previous session.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another turtile daemon instance is already running")
	}

	if d.cfg.Session.RestoreWorkspace {
		d.restoreWorkspace(ctx)
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("turtile daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath),
		logging.Workspace(d.store.Active()),
	)
	return nil
}

func (d *Daemon) restoreWorkspace(ctx context.Context) {
	name, ok, err := d.journal.Value(ctx, journal.KeyActiveWorkspace)
	if err != nil {
		logging.WarnWithContext(d.logger, "workspace restore skipped", "workspace_restore_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the journal database at "+d.journal.Path()),
			logging.String(logging.FieldImpact, "the first configured workspace stays active"),
		)
		return
	}
	if !ok {
		return
	}
	if _, err := d.store.SwitchWorkspace(name); err != nil {
		logging.WarnWithContext(d.logger, "saved workspace no longer configured", "workspace_restore_failed",
			logging.Workspace(name),
			logging.String(logging.FieldErrorHint, "add the workspace back to session.workspaces or ignore"),
			logging.String(logging.FieldImpact, "the first configured workspace stays active"),
		)
		return
	}
	d.logger.Info("workspace restored", logging.Workspace(name))
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if the next start reports a running instance"),
		)
	}
	d.running.Store(false)
	d.logger.Info("turtile daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Done is closed once an exit command has been accepted.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// SessionID identifies this daemon run.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Execute runs a command line, journals it, and signals Done on exit.
func (d *Daemon) Execute(ctx context.Context, line string) command.Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.store.Active()
	resp := d.engine.Execute(ctx, line)

	entry := journal.Entry{
		SessionID: d.sessionID,
		Command:   strings.Join(strings.Fields(line), " "),
		OK:        resp.OK(),
		Response:  resp.Body,
	}
	if id, ok := logging.RequestIDFromContext(ctx); ok {
		entry.RequestID = id
	}
	if resp.Err != nil {
		entry.Kind = string(resp.Err.Kind)
	}
	if _, err := d.journal.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, d.logger), "journal write failed", "journal_write_failed",
			logging.Error(err),
			logging.Command(entry.Command),
			logging.String(logging.FieldErrorHint, "check disk space and permissions on paths.state_dir"),
			logging.String(logging.FieldImpact, "command history is incomplete"),
		)
	}

	if after := d.store.Active(); after != before {
		if err := d.journal.SetValue(ctx, journal.KeyActiveWorkspace, after); err != nil {
			logging.WarnWithContext(d.logger, "active workspace not saved", "journal_write_failed",
				logging.Error(err),
				logging.Workspace(after),
				logging.String(logging.FieldImpact, "restore_workspace may reactivate an older workspace"),
			)
		}
	}

	if resp.Exit {
		d.doneOnce.Do(func() {
			d.logger.Info("exit requested", logging.String(logging.FieldEventType, "daemon_exit_requested"))
			close(d.done)
		})
	}
	return resp
}

// checkOpen must be called with d.mu held so no bridge change lands after an
// accepted exit.
func (d *Daemon) checkOpen() error {
	if d.engine.Exiting() {
		return ErrExiting
	}
	return nil
}

// MapWindow registers a new window on the active workspace.
func (d *Daemon) MapWindow(ctx context.Context, app, title string) (desktop.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return desktop.Window{}, err
	}
	w := d.store.MapWindow(app, title)
	logging.WithContext(ctx, d.logger).Info("window mapped",
		logging.String(logging.FieldEventType, "window_mapped"),
		logging.WindowID(w.ID),
		logging.String("app", w.App),
		logging.String("title", w.Title),
		logging.Workspace(w.Workspace),
	)
	return w, nil
}

// UnmapWindow removes a window from the store.
func (d *Daemon) UnmapWindow(ctx context.Context, id string) (desktop.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return desktop.Window{}, err
	}
	w, err := d.store.UnmapWindow(id)
	if err != nil {
		return desktop.Window{}, err
	}
	logging.WithContext(ctx, d.logger).Info("window unmapped",
		logging.String(logging.FieldEventType, "window_unmapped"),
		logging.WindowID(w.ID),
		logging.Workspace(w.Workspace),
	)
	return w, nil
}

// SetWindowTitle updates a window title.
func (d *Daemon) SetWindowTitle(ctx context.Context, id, title string) (desktop.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return desktop.Window{}, err
	}
	w, err := d.store.SetTitle(id, title)
	if err != nil {
		return desktop.Window{}, err
	}
	logging.WithContext(ctx, d.logger).Debug("window title changed",
		logging.WindowID(w.ID),
		logging.String("title", w.Title),
	)
	return w, nil
}

// Journal returns the most recent journaled commands, newest first.
func (d *Daemon) Journal(ctx context.Context, limit int) ([]journal.Entry, error) {
	return d.journal.Recent(ctx, limit)
}

// ApplyConfig appends workspaces that appeared in a reloaded configuration.
// Workspaces removed from the file stay until the next restart.
func (d *Daemon) ApplyConfig(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()

	var added []string
	for _, name := range cfg.Session.Workspaces {
		if d.store.HasWorkspace(name) {
			continue
		}
		if err := d.store.AddWorkspace(name); err != nil {
			logging.WarnWithContext(d.logger, "workspace from reloaded config rejected", "config_reload_workspace_rejected",
				logging.Workspace(name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix session.workspaces in the config file"),
			)
			continue
		}
		added = append(added, name)
		d.logger.Info("workspace added from config",
			logging.String(logging.FieldEventType, "workspace_added"),
			logging.Workspace(name),
		)
	}
	d.cfg.Session.Workspaces = append([]string(nil), cfg.Session.Workspaces...)
	return added
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	snap := d.store.Snapshot()
	status := Status{
		Running:       d.running.Load() && !d.engine.Exiting(),
		PID:           os.Getpid(),
		SessionID:     d.sessionID,
		StartedAt:     d.startedAt,
		Workspaces:    snap.Workspaces,
		WindowCount:   len(snap.Windows),
		FocusedWindow: snap.Focused,
		JournalPath:   d.journal.Path(),
		LockFilePath:  d.lockPath,
		LogPath:       d.cfg.LogPath(),
	}
	for _, ws := range snap.Workspaces {
		if ws.Active {
			status.ActiveWorkspace = ws.Name
		}
	}
	if count, err := d.journal.Count(ctx); err == nil {
		status.JournalEntries = count
	}
	return status
}
