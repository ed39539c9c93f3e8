package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// MemoModal edits the library-wide scratch note
type MemoModal struct {
	Modal
	lib      *library.Library
	text     textarea.Model
	errorMsg string
}

// NewMemoModal creates a new MemoModal instance
func NewMemoModal(lib *library.Library) MemoModal {
	ta := textarea.New()
	ta.Placeholder = "Parking lot for things to watch, read, or listen to next."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return MemoModal{
		Modal: NewModal("", 64, 18),
		lib:   lib,
		text:  ta,
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *MemoModal) SetSize(width, height int) {
	modalWidth := int(float64(width) * 0.7)
	modalHeight := height - 10

	if modalWidth < 44 {
		modalWidth = 44
	}
	if modalHeight < 10 {
		modalHeight = 10
	}

	m.width = modalWidth
	m.height = modalHeight
	m.text.SetWidth(modalWidth - 6)
	m.text.SetHeight(modalHeight - 7)
}

// ShowWith opens the editor seeded with the stored memo text.
func (m *MemoModal) ShowWith(text string) {
	m.text.SetValue(text)
	m.text.Focus()
	m.errorMsg = ""
	m.Show()
}

// Update handles input for the memo editor
func (m MemoModal) Update(msg tea.Msg) (MemoModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			m.text.Blur()
			return m, nil

		case "ctrl+s":
			return m, operations.SaveMemo(m.lib, m.text.Value())
		}
	}

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	return m, cmd
}

// HandleResult reacts to the saved-memo message.
func (m *MemoModal) HandleResult(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.Hide()
	m.text.Blur()
}

// View renders the memo editor
func (m MemoModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	content.WriteString(titleStyle.Render("MEMO"))
	content.WriteString("\n\n")
	content.WriteString(m.text.View())
	content.WriteString("\n\n")
	content.WriteString(theme.MutedStyle().Render("[ctrl+s] save  [esc] discard"))

	if m.errorMsg != "" {
		content.WriteString("\n")
		content.WriteString(theme.ErrorStyle().Render("⚠ " + m.errorMsg))
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(content.String())
}

// ViewWithOverlay renders the editor over a blanked background
func (m MemoModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}
