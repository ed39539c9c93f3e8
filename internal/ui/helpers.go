package ui

import (
	"strings"

	"github.com/nickpending/catchup/internal/stream"
)

// wrapText greedily wraps text on word boundaries to fit width. A single
// word longer than width stays on its own line unbroken.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// truncate shortens a string to maxLen with a trailing ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// kindLabel is the short uppercase tag shown next to a stream name
func kindLabel(k stream.Kind) string {
	switch k {
	case stream.Downloaded:
		return "DL"
	case stream.Linked:
		return "LINK"
	case stream.Manual:
		return "MAN"
	}
	return "?"
}

// cursorSummary renders a cursor as the one-line position shown in lists
func cursorSummary(c stream.Cursor) string {
	switch c.State() {
	case stream.NotStarted:
		return "not started"
	case stream.Exhausted:
		return "caught up"
	}
	return c.Date + stream.FieldSep + c.Name
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
