package command

import (
	"errors"
	"strings"

	"turtile/internal/desktop"
)

type handler func(e *Engine, args []string) Response

type entry struct {
	verb    string
	subverb string
	args    string
	run     handler
}

// commands is the flat dispatch table. Entries sharing a verb are listed
// together so usage hints keep table order.
var commands = []entry{
	{verb: "workspace", subverb: "list", run: (*Engine).workspaceList},
	{verb: "workspace", subverb: "switch", args: "<name>", run: (*Engine).workspaceSwitch},
	{verb: "window", subverb: "list", args: "[--long]", run: (*Engine).windowList},
	{verb: "window", subverb: "switch", args: "<id>", run: (*Engine).windowSwitch},
	{verb: "window", subverb: "cycle", run: (*Engine).windowCycle},
	{verb: "window", subverb: "kill", args: "[id]", run: (*Engine).windowKill},
	{verb: "window", subverb: "move-to", args: "<workspace> [id]", run: (*Engine).windowMoveTo},
	{verb: "window", subverb: "mtoggle", args: "[id]", run: (*Engine).windowMasterToggle},
	{verb: "exit", run: (*Engine).exit},
}

// usage lists the sub-verbs registered for verb, e.g. "workspace list|switch".
func usage(verb string) string {
	var subs []string
	for _, c := range commands {
		if c.verb == verb && c.subverb != "" {
			subs = append(subs, c.subverb)
		}
	}
	return verb + " " + strings.Join(subs, "|")
}

// Usage describes every command, one per line, for client help output.
func Usage() []string {
	lines := make([]string, 0, len(commands))
	for _, c := range commands {
		parts := []string{c.verb}
		if c.subverb != "" {
			parts = append(parts, c.subverb)
		}
		if c.args != "" {
			parts = append(parts, c.args)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

// Known reports whether line starts with a registered command. Arguments are
// not checked.
func Known(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, c := range commands {
		if c.verb != fields[0] {
			continue
		}
		if c.subverb == "" || (len(fields) > 1 && fields[1] == c.subverb) {
			return true
		}
	}
	return false
}

func (e *Engine) workspaceList(args []string) Response {
	if len(args) > 0 {
		return failure(newError(KindInvalidCommand, "workspace list takes no arguments"))
	}
	workspaces := e.store.ListWorkspaces()
	items := make([]object, 0, len(workspaces))
	for _, ws := range workspaces {
		items = append(items, object{{"name", ws.Name}, {"active", ws.Active}})
	}
	return Response{Body: renderArray(items)}
}

func (e *Engine) workspaceSwitch(args []string) Response {
	if len(args) == 0 {
		return failure(newError(KindMissingArgument, "missing argument: workspace name"))
	}
	name := args[0]
	changed, err := e.store.SwitchWorkspace(name)
	if err != nil {
		return failure(storeError(err, "workspace "+name))
	}
	if !changed {
		return success("already in workspace " + name)
	}
	return success("switch to workspace " + name)
}

func (e *Engine) windowList(args []string) Response {
	long := false
	for _, arg := range args {
		switch arg {
		case "--long", "-l":
			long = true
		default:
			return failure(newError(KindInvalidCommand, "unknown option %s: usage window list [--long]", arg))
		}
	}
	windows := e.store.ListWindows()
	items := make([]object, 0, len(windows))
	for _, w := range windows {
		item := object{{"title", w.Title}, {"workspace", w.Workspace}}
		if long {
			item = append(item, field{"id", w.ID}, field{"app", w.App})
		}
		items = append(items, item)
	}
	return Response{Body: renderArray(items)}
}

func (e *Engine) windowSwitch(args []string) Response {
	if len(args) == 0 {
		return failure(newError(KindMissingArgument, "missing argument: window id"))
	}
	w, err := e.store.Focus(args[0])
	if err != nil {
		return failure(storeError(err, "window "+args[0]))
	}
	return success("switching focus to: " + w.Title)
}

func (e *Engine) windowCycle(args []string) Response {
	if len(args) > 0 {
		return failure(newError(KindInvalidCommand, "window cycle takes no arguments"))
	}
	w, err := e.store.CycleFocus()
	if err != nil {
		return failure(storeError(err, "window"))
	}
	return success("switching focus to: " + w.Title)
}

func (e *Engine) windowKill(args []string) Response {
	id := firstArg(args)
	w, err := e.store.Kill(id)
	if err != nil {
		return failure(storeError(err, "window "+id))
	}
	return success("kill: " + w.Title)
}

func (e *Engine) windowMoveTo(args []string) Response {
	if len(args) == 0 {
		return failure(newError(KindMissingArgument, "missing argument: workspace name"))
	}
	target := args[0]
	if !e.store.HasWorkspace(target) {
		return failure(newError(KindNotFound, "workspace %s not found", target))
	}
	id := firstArg(args[1:])
	w, err := e.store.MoveWindow(id, target)
	if err != nil {
		if errors.Is(err, desktop.ErrNoFocus) {
			return failure(newError(KindInvalidState, "no focused window to move"))
		}
		return failure(storeError(err, "window "+id))
	}
	return success("moved window " + w.Title + " to workspace " + w.Workspace)
}

func (e *Engine) windowMasterToggle(args []string) Response {
	var (
		w   desktop.Window
		err error
	)
	id := firstArg(args)
	if id != "" {
		w, err = e.store.SetMaster(id)
	} else {
		w, err = e.store.ToggleMaster()
	}
	if err != nil {
		return failure(storeError(err, "window "+id))
	}
	return success("master: " + w.Title)
}

func (e *Engine) exit(args []string) Response {
	if len(args) > 0 {
		return failure(newError(KindInvalidCommand, "exit takes no arguments"))
	}
	resp := success("exiting turtile")
	resp.Exit = true
	return resp
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
