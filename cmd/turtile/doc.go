// Command turtile manages the turtile daemon: starting and stopping it,
// inspecting its status, journal and log, checking and editing
// configuration, and bridging window lifecycle events from a compositor
// backend.
package main
