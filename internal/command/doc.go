// Package command implements the text command protocol spoken over the
// control socket.
//
// A command line is split on whitespace and matched against a flat table
// keyed by verb and sub-verb ("workspace switch", "window list", "exit").
// Handlers read and mutate the desktop store and render a JSON body: lists
// use the spaced array layout clients match byte for byte, results use a
// one-line {"success": ...} or {"error": ..., "kind": ...} object.
package command
