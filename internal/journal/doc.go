// Package journal persists the daemon's command history and a handful of
// session values in SQLite.
//
// Every command line handled on the control socket is appended with its
// outcome, so `turtile journal` can show what clients asked for and why a
// request was rejected. The journal is trimmed to a configured number of
// rows after each insert. Session values hold small facts that outlive a
// daemon run, such as the workspace that was active at shutdown.
package journal
