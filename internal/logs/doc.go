// Package logs reads the daemon log file for `turtile logs`.
//
// Tail returns the last lines of the file with bounded memory. Follow keeps
// reading appended lines and starts over from the beginning when the daemon
// rotates the file on its next start.
package logs
