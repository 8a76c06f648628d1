// Package configwatch reloads the turtile config file when it changes on
// disk and hands the parsed result to the running daemon.
package configwatch
