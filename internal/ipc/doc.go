// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by ttcli and turtile.
//
// It owns socket lifecycle management, peer credential checks, and the
// request/response DTOs. The server embeds the daemon and tags each call
// with a request id so journal rows and log lines can be correlated.
//
// Reuse these types when adding new RPC endpoints to keep the protocol stable
// and compatible with existing command implementations.
package ipc
