package termui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Kind classifies a status line.
type Kind int

const (
	Info Kind = iota
	OK
	Warn
	Error
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

// StatusLine renders "  label:   [KIND] message".
func StatusLine(label string, kind Kind, message string, colorize bool) string {
	statusText := kindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := kindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func kindLabel(kind Kind) string {
	switch kind {
	case OK:
		return "OK"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func kindColor(kind Kind) string {
	switch kind {
	case OK:
		return ansiGreen
	case Warn:
		return ansiYellow
	case Error:
		return ansiRed
	case Info:
		return ansiBlue
	default:
		return ""
	}
}

// Colored wraps s in the colour for kind when colorize is set.
func Colored(s string, kind Kind, colorize bool) string {
	if !colorize {
		return s
	}
	return kindColor(kind) + s + ansiReset
}

// SectionHeader renders a title line followed by a rule.
func SectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// ShouldColorize reports whether writer is an interactive terminal.
func ShouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// YesNo renders a boolean for status output.
func YesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
