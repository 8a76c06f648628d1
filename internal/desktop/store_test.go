package desktop

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("w%d", n)
	})
}

func newTestStore(t *testing.T, names ...string) *Store {
	t.Helper()
	if len(names) == 0 {
		names = []string{"main", "test"}
	}
	s, err := New(names, sequentialIDs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func activeCount(ws []Workspace) int {
	count := 0
	for _, w := range ws {
		if w.Active {
			count++
		}
	}
	return count
}

func TestNewActivatesFirstWorkspace(t *testing.T) {
	s := newTestStore(t)
	got := s.ListWorkspaces()
	want := []Workspace{{Name: "main", Active: true}, {Name: "test", Active: false}}
	if len(got) != len(want) {
		t.Fatalf("workspace count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("workspace[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s.Active() != "main" {
		t.Errorf("Active() = %q, want main", s.Active())
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  error
	}{
		{"empty", nil, ErrNoWorkspaces},
		{"duplicate", []string{"main", "main"}, ErrDuplicate},
		{"whitespace", []string{"my space"}, ErrInvalidName},
		{"blank", []string{"  "}, ErrInvalidName},
		{"too long", []string{strings.Repeat("a", MaxNameLength+1)}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestNormalizeNameComposesUnicode(t *testing.T) {
	s := newTestStore(t, "caf\u00e9", "main")
	if err := s.AddWorkspace("cafe\u0301"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("decomposed duplicate error = %v, want ErrDuplicate", err)
	}
	if _, err := s.SwitchWorkspace("main"); err != nil {
		t.Fatalf("switch to main failed: %v", err)
	}
	if _, err := s.SwitchWorkspace("  cafe\u0301 "); err != nil {
		t.Fatalf("switch by decomposed name failed: %v", err)
	}
}

func TestSwitchWorkspace(t *testing.T) {
	s := newTestStore(t)

	changed, err := s.SwitchWorkspace("test")
	if err != nil {
		t.Fatalf("SwitchWorkspace failed: %v", err)
	}
	if !changed {
		t.Fatal("expected switch to report a change")
	}
	if s.Active() != "test" {
		t.Fatalf("Active() = %q, want test", s.Active())
	}

	changed, err = s.SwitchWorkspace("test")
	if err != nil {
		t.Fatalf("repeat switch failed: %v", err)
	}
	if changed {
		t.Fatal("switch to the active workspace should not report a change")
	}

	ws := s.ListWorkspaces()
	if activeCount(ws) != 1 {
		t.Fatalf("active count = %d, want 1", activeCount(ws))
	}
}

func TestSwitchUnknownWorkspaceLeavesState(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	_, err := s.SwitchWorkspace("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	after := s.Snapshot()
	if after.Focused != before.Focused || s.Active() != "main" {
		t.Fatalf("state changed after failed switch: %+v", after)
	}
}

func TestExactlyOneActiveAfterManySwitches(t *testing.T) {
	s := newTestStore(t, "a", "b", "c", "d")
	sequence := []string{"b", "b", "d", "a", "missing", "c", "a", "d"}
	for _, name := range sequence {
		_, _ = s.SwitchWorkspace(name)
		if got := activeCount(s.ListWorkspaces()); got != 1 {
			t.Fatalf("after switching to %q active count = %d", name, got)
		}
	}
	if s.Active() != "d" {
		t.Fatalf("Active() = %q, want d", s.Active())
	}
}

func TestWorkspaceLookup(t *testing.T) {
	s := newTestStore(t)
	ws, err := s.Workspace("main")
	if err != nil {
		t.Fatalf("Workspace failed: %v", err)
	}
	if !ws.Active {
		t.Fatal("main should be active")
	}
	if _, err := s.Workspace("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !s.HasWorkspace("test") || s.HasWorkspace("ghost") {
		t.Fatal("HasWorkspace returned unexpected result")
	}
}

func TestMapWindowLandsOnActiveWorkspaceWithFocus(t *testing.T) {
	s := newTestStore(t)
	first := s.MapWindow("weston", "simple-egl")
	second := s.MapWindow("weston", "simple-damage")

	if first.Workspace != "main" || second.Workspace != "main" {
		t.Fatalf("windows mapped to wrong workspace: %+v %+v", first, second)
	}
	focused, ok := s.Focused()
	if !ok || focused.ID != second.ID {
		t.Fatalf("focused = %+v, want %s", focused, second.ID)
	}

	got := s.ListWindows()
	if len(got) != 2 || got[0].Title != "simple-egl" || got[1].Title != "simple-damage" {
		t.Fatalf("ListWindows() = %+v", got)
	}
}

func TestListWindowsStableAcrossSwitches(t *testing.T) {
	s := newTestStore(t)
	s.MapWindow("", "simple-egl")
	s.MapWindow("", "simple-damage")
	before := s.ListWindows()

	for _, name := range []string{"test", "main", "test"} {
		if _, err := s.SwitchWorkspace(name); err != nil {
			t.Fatalf("switch %s: %v", name, err)
		}
	}

	after := s.ListWindows()
	if len(after) != len(before) {
		t.Fatalf("window count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("window[%d] changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestListWindowsGroupsByWorkspaceOrder(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SwitchWorkspace("test"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	s.MapWindow("", "on-test")
	if _, err := s.SwitchWorkspace("main"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	s.MapWindow("", "on-main")

	got := s.ListWindows()
	if got[0].Title != "on-main" || got[1].Title != "on-test" {
		t.Fatalf("ListWindows() order = %+v", got)
	}
}

func TestSwitchRestoresWorkspaceFocus(t *testing.T) {
	s := newTestStore(t)
	a := s.MapWindow("", "a")
	s.MapWindow("", "b")
	if _, err := s.Focus(a.ID); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if _, err := s.SwitchWorkspace("test"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if _, ok := s.Focused(); ok {
		t.Fatal("empty workspace should have no focus")
	}
	if _, err := s.SwitchWorkspace("main"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	focused, ok := s.Focused()
	if !ok || focused.ID != a.ID {
		t.Fatalf("focused = %+v, want %s", focused, a.ID)
	}
}

func TestFocusActivatesOwningWorkspace(t *testing.T) {
	s := newTestStore(t)
	w := s.MapWindow("", "a")
	if _, err := s.SwitchWorkspace("test"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if _, err := s.Focus(w.ID); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if s.Active() != "main" {
		t.Fatalf("Active() = %q, want main", s.Active())
	}
	if _, err := s.Focus("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCycleFocus(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CycleFocus(); !errors.Is(err, ErrEmptyWorkspace) {
		t.Fatalf("empty cycle error = %v", err)
	}
	a := s.MapWindow("", "a")
	if _, err := s.CycleFocus(); !errors.Is(err, ErrSingleWindow) {
		t.Fatalf("single cycle error = %v", err)
	}
	b := s.MapWindow("", "b")
	c := s.MapWindow("", "c")

	// Focus order is c, b, a; cycling picks the oldest each time.
	for _, want := range []string{a.ID, b.ID, c.ID, a.ID} {
		got, err := s.CycleFocus()
		if err != nil {
			t.Fatalf("CycleFocus: %v", err)
		}
		if got.ID != want {
			t.Fatalf("CycleFocus() = %s, want %s", got.ID, want)
		}
	}
}

func TestMoveWindow(t *testing.T) {
	s := newTestStore(t)
	w := s.MapWindow("", "a")

	moved, err := s.MoveWindow("", "test")
	if err != nil {
		t.Fatalf("MoveWindow: %v", err)
	}
	if moved.ID != w.ID || moved.Workspace != "test" {
		t.Fatalf("moved = %+v", moved)
	}
	if _, ok := s.Focused(); ok {
		t.Fatal("main should have no focus after its only window moved")
	}
	if _, err := s.MoveWindow(w.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if _, err := s.MoveWindow("", "test"); !errors.Is(err, ErrNoFocus) {
		t.Fatalf("error = %v, want ErrNoFocus", err)
	}
}

func TestKillAndUnmap(t *testing.T) {
	s := newTestStore(t)
	a := s.MapWindow("", "a")
	b := s.MapWindow("", "b")

	killed, err := s.Kill("")
	if err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if killed.ID != b.ID {
		t.Fatalf("killed %s, want focused %s", killed.ID, b.ID)
	}
	focused, ok := s.Focused()
	if !ok || focused.ID != a.ID {
		t.Fatalf("focus did not fall back to %s", a.ID)
	}
	if _, err := s.UnmapWindow(a.ID); err != nil {
		t.Fatalf("UnmapWindow: %v", err)
	}
	if _, err := s.UnmapWindow(a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unmap error = %v", err)
	}
	if len(s.ListWindows()) != 0 {
		t.Fatal("expected no windows")
	}
}

func TestSetTitle(t *testing.T) {
	s := newTestStore(t)
	w := s.MapWindow("foot", "")
	if _, err := s.SetTitle(w.ID, "shell"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	got, err := s.Window(w.ID)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if got.Title != "shell" || got.App != "foot" {
		t.Fatalf("window = %+v", got)
	}
}

func TestToggleMaster(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ToggleMaster(); !errors.Is(err, ErrNoFocus) {
		t.Fatalf("error = %v, want ErrNoFocus", err)
	}
	a := s.MapWindow("", "a")
	if _, err := s.ToggleMaster(); !errors.Is(err, ErrAlreadyMaster) {
		t.Fatalf("error = %v, want ErrAlreadyMaster", err)
	}
	b := s.MapWindow("", "b")

	promoted, err := s.ToggleMaster()
	if err != nil {
		t.Fatalf("ToggleMaster: %v", err)
	}
	if promoted.ID != b.ID || s.ListWindows()[0].ID != b.ID {
		t.Fatalf("expected %s to become master", b.ID)
	}

	promoted, err = s.ToggleMaster()
	if err != nil {
		t.Fatalf("ToggleMaster: %v", err)
	}
	if promoted.ID != a.ID || s.ListWindows()[0].ID != a.ID {
		t.Fatalf("expected %s to become master again", a.ID)
	}

	if _, err := s.SetMaster(b.ID); err != nil {
		t.Fatalf("SetMaster: %v", err)
	}
	if s.ListWindows()[0].ID != b.ID {
		t.Fatal("SetMaster did not reorder layout")
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	w := s.MapWindow("", "a")
	snap := s.Snapshot()
	if snap.Focused != w.ID {
		t.Fatalf("Focused = %q, want %q", snap.Focused, w.ID)
	}
	if len(snap.Workspaces) != 2 || len(snap.Windows) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	snap.Windows[0].Title = "mutated"
	if got, _ := s.Window(w.ID); got.Title != "a" {
		t.Fatal("snapshot shares memory with the store")
	}
}
