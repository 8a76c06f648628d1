// Package daemon coordinates the long-running turtile process.
//
// It wires the desktop store, the command engine and the SQLite journal into
// a single lifecycle with flock-based locking to prevent multiple instances.
// Every command line is executed under the engine lock, journaled, and the
// active workspace is remembered so a restart can restore it. The window
// bridge (map, unmap, title) enters the store through the daemon as well.
//
// An exit command closes the Done channel; the runtime loop watching it is
// responsible for tearing down the socket and releasing the lock.
package daemon
