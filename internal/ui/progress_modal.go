package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// ProgressModal records where the user stopped inside the current item
type ProgressModal struct {
	Modal
	target   *stream.Stream
	input    textinput.Model
	errorMsg string
}

// NewProgressModal creates a new ProgressModal instance
func NewProgressModal() ProgressModal {
	ti := textinput.New()
	ti.Placeholder = "23:45, p. 120, done with part one"
	ti.CharLimit = 128
	ti.Width = 36

	return ProgressModal{
		Modal: NewModal("", 46, 8),
		input: ti,
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *ProgressModal) SetSize(width, height int) {
	modalWidth := 46
	if width < 52 {
		modalWidth = width - 5
	}
	m.width = modalWidth
	m.input.Width = modalWidth - 10
}

// ShowFor opens the form prefilled with the stream's current progress note.
func (m *ProgressModal) ShowFor(st *stream.Stream) {
	m.target = st
	m.input.SetValue(st.Cursor.Progress)
	m.input.CursorEnd()
	m.input.Focus()
	m.errorMsg = ""
	m.Show()
}

// Update handles input for the progress form
func (m ProgressModal) Update(msg tea.Msg) (ProgressModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			m.input.Blur()
			return m, nil

		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if strings.Contains(value, stream.FieldSep) {
				m.errorMsg = "progress cannot contain " + stream.FieldSep
				return m, nil
			}
			return m, operations.SaveProgress(m.target, value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// HandleResult reacts to the saved-progress message.
func (m *ProgressModal) HandleResult(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.Hide()
	m.input.Blur()
}

// View renders the progress form
func (m ProgressModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var lines []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	lines = append(lines, titleStyle.Render("PROGRESS"))
	lines = append(lines, "")

	if m.target != nil {
		item := cursorSummary(m.target.Cursor)
		lines = append(lines, theme.MutedStyle().Render(truncate(item, m.width-8)))
		lines = append(lines, "")
	}

	lines = append(lines, m.input.View())
	lines = append(lines, "")
	lines = append(lines, theme.MutedStyle().Render("[↵] save  [esc] cancel"))

	if m.errorMsg != "" {
		lines = append(lines, "")
		lines = append(lines, theme.ErrorStyle().Render("⚠ "+m.errorMsg))
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(strings.Join(lines, "\n"))
}

// ViewWithOverlay renders the form over a blanked background
func (m ProgressModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}
