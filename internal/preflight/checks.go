package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"turtile/internal/command"
	"turtile/internal/config"
)

// shellPath runs autostart commands.
const shellPath = "/bin/sh"

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that command resolves on PATH or as a path.
func CheckBinary(name, cmd string, optional bool) Result {
	cmd = strings.TrimSpace(cmd)
	result := Result{Name: name, Optional: optional}
	if cmd == "" {
		result.Detail = "command not configured"
		return result
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found", cmd)
		return result
	}
	result.Passed = true
	result.Detail = resolved
	return result
}

// CheckAutostart resolves the program an autostart line runs. Lines that
// start with a shell builtin or assignment are reported as passed without
// a lookup.
func CheckAutostart(line string) Result {
	fields := strings.Fields(line)
	name := "Autostart: " + line
	if len(fields) == 0 {
		return Result{Name: name, Optional: true, Detail: "empty command"}
	}
	program := fields[0]
	if strings.Contains(program, "=") || shellBuiltins[program] {
		return Result{Name: name, Passed: true, Optional: true, Detail: "shell expression"}
	}
	return CheckBinary(name, program, true)
}

var shellBuiltins = map[string]bool{
	"cd": true, "exec": true, "export": true, "set": true, "test": true, "[": true,
}

// CheckKeybinds reports keybinds whose command is not one the daemon accepts.
func CheckKeybinds(binds []config.Keybind) []Result {
	if len(binds) == 0 {
		return nil
	}
	var results []Result
	for _, kb := range binds {
		if command.Known(kb.Cmd) {
			continue
		}
		chord := strings.Join(append(append([]string(nil), kb.Mods...), kb.Key), "+")
		results = append(results, Result{
			Name:   "Keybind " + chord,
			Detail: fmt.Sprintf("unknown command %q", kb.Cmd),
		})
	}
	if len(results) == 0 {
		results = append(results, Result{
			Name:   "Keybinds",
			Passed: true,
			Detail: fmt.Sprintf("%d commands recognized", len(binds)),
		})
	}
	return results
}
