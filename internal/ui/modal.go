package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal is the base overlay every dialog embeds: a bordered box with an
// optional title, centered over a blanked board.
type Modal struct {
	title   string
	content string
	width   int
	height  int
	visible bool
}

// NewModal returns a hidden modal of the given inner size.
func NewModal(title string, width, height int) Modal {
	return Modal{title: title, width: width, height: height}
}

// Show marks the modal visible.
func (m *Modal) Show() { m.visible = true }

// Hide marks the modal hidden.
func (m *Modal) Hide() { m.visible = false }

// IsVisible reports whether the modal is showing.
func (m Modal) IsVisible() bool { return m.visible }

// SetContent replaces the body below the title.
func (m *Modal) SetContent(content string) { m.content = content }

// View renders the framed modal, or nothing while hidden.
func (m Modal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	body := m.content
	if m.title != "" {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			MarginBottom(1).
			Render(m.title)
		body = title + "\n" + m.content
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Align(lipgloss.Left).
		Render(body)
}

// ViewWithOverlay centers the modal over a blanked background. The first
// line of the background is the title bar and stays visible.
func (m Modal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width+4)
}

// overlayView places a rendered dialog over the background. Dialog views
// differ in chrome so callers pass their effective width.
func overlayView(modalView, backgroundView string, termWidth, termHeight, modalWidth int) string {
	if modalView == "" {
		return backgroundView
	}

	lines := strings.Split(backgroundView, "\n")
	blank := strings.Repeat(" ", termWidth)
	for i := 1; i < len(lines); i++ {
		lines[i] = blank
	}

	dialog := strings.Split(modalView, "\n")
	top := maxInt(1, (termHeight-len(dialog))/2)
	left := strings.Repeat(" ", maxInt(0, (termWidth-modalWidth)/2))

	canvas := make([]string, maxInt(len(lines), top+len(dialog)))
	copy(canvas, lines)
	for i, line := range dialog {
		if top+i < len(canvas) {
			canvas[top+i] = left + line
		}
	}

	return strings.Join(canvas, "\n")
}
