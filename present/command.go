// Package present puts rendered frames on a screen and turns input into transport commands
package present

import (
	"github.com/gdamore/tcell/v2"
)

// Command is a user intent decoded from input
type Command int

const (
	CmdNone Command = iota
	CmdTogglePlay
	CmdStop
	CmdToggleLoop
	CmdNextPattern
	CmdNextColor
	CmdNextBeat
	CmdQuit
)

func (c Command) String() string {
	names := [...]string{"none", "toggle-play", "stop", "toggle-loop", "next-pattern", "next-color", "next-beat", "quit"}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// KeyCommand maps a key event to a command
// Space plays or pauses, s stops, l loops, m/c/b cycle pattern, color and beat style, q or Esc quits
func KeyCommand(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyRune:
	default:
		return CmdNone
	}

	switch ev.Rune() {
	case ' ':
		return CmdTogglePlay
	case 's', 'S':
		return CmdStop
	case 'l', 'L':
		return CmdToggleLoop
	case 'm', 'M':
		return CmdNextPattern
	case 'c', 'C':
		return CmdNextColor
	case 'b', 'B':
		return CmdNextBeat
	case 'q', 'Q':
		return CmdQuit
	}
	return CmdNone
}
