package termio

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the current width of the terminal attached to
// stdout, and false if stdout is not a terminal (e.g. output piped to a
// file or another process) — `atlas inspect` falls back to an unbounded
// table in that case, mirroring go-corset's TTY-vs-pipe fallback for
// `--no-tui` output.
func TerminalWidth() (uint, bool) {
	fd := int(os.Stdout.Fd())

	if !term.IsTerminal(fd) {
		return 0, false
	}

	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0, false
	}

	return uint(w), true
}
