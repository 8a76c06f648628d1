package testsupport

import (
	"strconv"
	"testing"

	"turtile/internal/config"
	"turtile/internal/desktop"
	"turtile/internal/journal"
)

// MustOpenJournal opens the command journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.JournalPath(), cfg.Session.JournalLimit)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewDesktop builds a desktop store over the configured workspaces with
// sequential window ids w1, w2, ...
func NewDesktop(t testing.TB, cfg *config.Config) *desktop.Store {
	t.Helper()

	next := 0
	store, err := desktop.New(cfg.Session.Workspaces, desktop.WithIDGenerator(func() string {
		next++
		return "w" + strconv.Itoa(next)
	}))
	if err != nil {
		t.Fatalf("desktop.New: %v", err)
	}
	return store
}
