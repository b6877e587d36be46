// Package ui holds terminal styling for the watch board: checkbox glyphs,
// accent color for issue iids, and muted rendering for closed rows.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI256 color codes.
const (
	colorAccent = 74  // blue, issue iids
	colorOpen   = 114 // green, open state
	colorMuted  = 245 // medium gray, closed rows
)

var noColor bool

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ShouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func ShouldUseColor() bool {
	// https://no-color.org — any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// CLICOLOR_FORCE=1 forces color even without a TTY.
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	// CLICOLOR=0 explicitly disables color.
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	// Default: color if stdout is a terminal.
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Checkbox returns the state glyph for a board row.
func Checkbox(closed bool) string {
	if closed {
		return "[x]"
	}
	return "[ ]"
}

// RenderIID returns an issue iid in the accent color.
func RenderIID(iid int) string {
	s := fmt.Sprintf("#%d", iid)
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderState returns an issue state label, green for open, gray for closed.
func RenderState(closed bool) string {
	if closed {
		return RenderMuted("closed")
	}
	if noColor {
		return "open"
	}
	return fmt.Sprintf("\x1b[38;5;%dmopen\x1b[0m", colorOpen)
}

// RenderMuted returns s in the muted (gray) color closed rows use.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderTitle returns a row title, muted and struck through when the row
// is closed.
func RenderTitle(title string, closed bool) string {
	if !closed || noColor {
		return title
	}
	return fmt.Sprintf("\x1b[9;38;5;%dm%s\x1b[0m", colorMuted, title)
}
