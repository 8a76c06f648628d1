// Package preflight checks that a configuration can run on this machine.
//
// `turtile doctor` prints every result. Directory and shell checks are
// required; autostart binaries are optional because a missing one only
// loses that program, not the session.
package preflight
