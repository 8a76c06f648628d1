// Package desktop owns the workspace and window registry that the command
// engine queries and mutates.
//
// The Store keeps workspaces in configuration order with exactly one of them
// active, and windows in layout order together with a most-recently-focused
// list. Every operation runs under a single lock and hands callers copies, so
// no reader ever observes two active workspaces or a window whose workspace
// does not exist.
//
// Window lifecycle (map, unmap, title changes) is driven from outside through
// the daemon bridge; the command engine only focuses, moves, reorders and
// closes windows that already exist.
package desktop
