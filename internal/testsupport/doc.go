// Package testsupport builds configs, journals and desktops for tests.
package testsupport
