package desktop

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Workspace is a named desktop context. Exactly one workspace is active.
type Workspace struct {
	Name   string
	Active bool
}

// Window is a client surface assigned to exactly one workspace.
type Window struct {
	ID        string
	App       string
	Title     string
	Workspace string
}

// Snapshot captures the registry at a single point in time.
type Snapshot struct {
	Workspaces []Workspace
	Windows    []Window
	Focused    string
}

// Option customizes a Store.
type Option func(*Store)

// WithIDGenerator replaces the window id generator. Tests use it to get
// deterministic identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Store is the single owner of workspace and window state.
type Store struct {
	mu sync.RWMutex

	workspaces []string
	active     int

	// windows is the layout order; the first window of a workspace is its master.
	windows []*Window
	// focus holds window ids, most recently focused first.
	focus []string

	newID func() string
}

// New builds a store with the given workspaces in order. The first workspace
// starts active.
func New(names []string, opts ...Option) (*Store, error) {
	if len(names) == 0 {
		return nil, ErrNoWorkspaces
	}
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	for _, name := range names {
		if err := s.addWorkspaceLocked(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddWorkspace appends a workspace. Adding an existing name returns ErrDuplicate.
func (s *Store) AddWorkspace(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addWorkspaceLocked(name)
}

func (s *Store) addWorkspaceLocked(name string) error {
	name = NormalizeName(name)
	if err := ValidateName(name); err != nil {
		return err
	}
	if s.workspaceIndex(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	s.workspaces = append(s.workspaces, name)
	return nil
}

// Workspace looks up a workspace by name.
func (s *Store) Workspace(name string) (Workspace, error) {
	name = NormalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.workspaceIndex(name)
	if idx < 0 {
		return Workspace{}, fmt.Errorf("workspace %s: %w", name, ErrNotFound)
	}
	return Workspace{Name: name, Active: idx == s.active}, nil
}

// HasWorkspace reports whether name is registered.
func (s *Store) HasWorkspace(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceIndex(NormalizeName(name)) >= 0
}

// Active returns the name of the active workspace.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaces[s.active]
}

// ListWorkspaces returns workspaces in insertion order.
func (s *Store) ListWorkspaces() []Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWorkspacesLocked()
}

func (s *Store) listWorkspacesLocked() []Workspace {
	out := make([]Workspace, 0, len(s.workspaces))
	for i, name := range s.workspaces {
		out = append(out, Workspace{Name: name, Active: i == s.active})
	}
	return out
}

// ListWindows returns windows grouped by workspace in workspace order, each
// group in layout order.
func (s *Store) ListWindows() []Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWindowsLocked()
}

func (s *Store) listWindowsLocked() []Window {
	out := make([]Window, 0, len(s.windows))
	for _, name := range s.workspaces {
		for _, w := range s.windows {
			if w.Workspace == name {
				out = append(out, *w)
			}
		}
	}
	return out
}

// Snapshot returns workspaces, windows and the focused window id in one read.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Workspaces: s.listWorkspacesLocked(),
		Windows:    s.listWindowsLocked(),
	}
	if w := s.focusedLocked(); w != nil {
		snap.Focused = w.ID
	}
	return snap
}

// SwitchWorkspace activates name and focuses its most recently focused
// window. It reports false when name was already active. Unknown names return
// ErrNotFound and leave the store untouched.
func (s *Store) SwitchWorkspace(name string) (bool, error) {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.workspaceIndex(name)
	if idx < 0 {
		return false, fmt.Errorf("workspace %s: %w", name, ErrNotFound)
	}
	if idx == s.active {
		return false, nil
	}
	s.active = idx
	if w := s.focusedLocked(); w != nil {
		s.raiseLocked(w.ID)
	}
	return true, nil
}

// Window returns a copy of the window with the given id.
func (s *Store) Window(id string) (Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.windowLocked(id)
	if w == nil {
		return Window{}, fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	return *w, nil
}

// Focused returns the most recently focused window on the active workspace.
func (s *Store) Focused() (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.focusedLocked()
	if w == nil {
		return Window{}, false
	}
	return *w, true
}

// MapWindow registers a new window on the active workspace, appends it to the
// layout and gives it focus.
func (s *Store) MapWindow(app, title string) Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &Window{
		ID:        s.newID(),
		App:       app,
		Title:     title,
		Workspace: s.workspaces[s.active],
	}
	s.windows = append(s.windows, w)
	s.focus = append([]string{w.ID}, s.focus...)
	return *w
}

// UnmapWindow removes a window from the registry.
func (s *Store) UnmapWindow(id string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// SetTitle updates a window title.
func (s *Store) SetTitle(id, title string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.windowLocked(id)
	if w == nil {
		return Window{}, fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	w.Title = title
	return *w, nil
}

// Focus raises a window and makes its workspace the active one.
func (s *Store) Focus(id string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.windowLocked(id)
	if w == nil {
		return Window{}, fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	s.active = s.workspaceIndex(w.Workspace)
	s.raiseLocked(id)
	return *w, nil
}

// CycleFocus focuses the least recently focused window on the active workspace.
func (s *Store) CycleFocus() (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := s.focusOrderLocked(s.workspaces[s.active])
	switch len(candidates) {
	case 0:
		return Window{}, ErrEmptyWorkspace
	case 1:
		return Window{}, ErrSingleWindow
	}
	next := candidates[len(candidates)-1]
	s.raiseLocked(next.ID)
	return *next, nil
}

// MoveWindow assigns a window to another workspace. An empty id selects the
// focused window.
func (s *Store) MoveWindow(id, workspace string) (Window, error) {
	workspace = NormalizeName(workspace)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspaceIndex(workspace) < 0 {
		return Window{}, fmt.Errorf("workspace %s: %w", workspace, ErrNotFound)
	}
	w, err := s.targetLocked(id)
	if err != nil {
		return Window{}, err
	}
	w.Workspace = workspace
	return *w, nil
}

// Kill closes a window. An empty id selects the focused window.
func (s *Store) Kill(id string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.targetLocked(id)
	if err != nil {
		return Window{}, err
	}
	return s.removeLocked(w.ID)
}

// SetMaster moves a window to the head of its workspace layout.
func (s *Store) SetMaster(id string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.windowLocked(id)
	if w == nil {
		return Window{}, fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	s.promoteLocked(w)
	return *w, nil
}

// ToggleMaster promotes the focused window to master. When the focused window
// already is master, the next window in focus order is promoted instead.
func (s *Store) ToggleMaster() (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	focused := s.focusedLocked()
	if focused == nil {
		return Window{}, ErrNoFocus
	}
	if master := s.masterLocked(focused.Workspace); master != focused {
		s.promoteLocked(focused)
		return *focused, nil
	}
	order := s.focusOrderLocked(focused.Workspace)
	if len(order) < 2 {
		return Window{}, ErrAlreadyMaster
	}
	s.promoteLocked(order[1])
	return *order[1], nil
}

func (s *Store) workspaceIndex(name string) int {
	for i, ws := range s.workspaces {
		if ws == name {
			return i
		}
	}
	return -1
}

func (s *Store) windowLocked(id string) *Window {
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *Store) targetLocked(id string) (*Window, error) {
	if id == "" {
		w := s.focusedLocked()
		if w == nil {
			return nil, ErrNoFocus
		}
		return w, nil
	}
	w := s.windowLocked(id)
	if w == nil {
		return nil, fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	return w, nil
}

func (s *Store) focusedLocked() *Window {
	order := s.focusOrderLocked(s.workspaces[s.active])
	if len(order) == 0 {
		return nil
	}
	return order[0]
}

func (s *Store) focusOrderLocked(workspace string) []*Window {
	var out []*Window
	for _, id := range s.focus {
		if w := s.windowLocked(id); w != nil && w.Workspace == workspace {
			out = append(out, w)
		}
	}
	return out
}

func (s *Store) masterLocked(workspace string) *Window {
	for _, w := range s.windows {
		if w.Workspace == workspace {
			return w
		}
	}
	return nil
}

func (s *Store) raiseLocked(id string) {
	next := make([]string, 0, len(s.focus))
	next = append(next, id)
	for _, other := range s.focus {
		if other != id {
			next = append(next, other)
		}
	}
	s.focus = next
}

func (s *Store) promoteLocked(w *Window) {
	next := make([]*Window, 0, len(s.windows))
	next = append(next, w)
	for _, other := range s.windows {
		if other != w {
			next = append(next, other)
		}
	}
	s.windows = next
}

func (s *Store) removeLocked(id string) (Window, error) {
	for i, w := range s.windows {
		if w.ID != id {
			continue
		}
		s.windows = append(s.windows[:i:i], s.windows[i+1:]...)
		for j, other := range s.focus {
			if other == id {
				s.focus = append(s.focus[:j:j], s.focus[j+1:]...)
				break
			}
		}
		return *w, nil
	}
	return Window{}, fmt.Errorf("window %s: %w", id, ErrNotFound)
}
