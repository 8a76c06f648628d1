// Command ttcli sends one command line to the running turtile daemon and
// prints the reply, either as the raw JSON body (--json) or rendered for a
// terminal.
package main
