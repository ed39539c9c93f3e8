package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// ItemModal is the entry form for hand-curated queue items
type ItemModal struct {
	Modal
	lib         *library.Library
	target      *stream.Stream
	formFields  map[string]string // "date", "name", "note"
	activeField string
	errorMsg    string
}

// NewItemModal creates a new ItemModal instance
func NewItemModal(lib *library.Library) ItemModal {
	return ItemModal{
		Modal:      NewModal("", 50, 14),
		lib:        lib,
		formFields: make(map[string]string),
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *ItemModal) SetSize(width, height int) {
	modalWidth := 50
	if width < 56 {
		modalWidth = width - 5
	}
	m.width = modalWidth
}

// ShowFor opens the form targeting a manual stream.
func (m *ItemModal) ShowFor(st *stream.Stream) {
	m.target = st
	m.formFields = map[string]string{"date": "", "name": "", "note": ""}
	m.activeField = "date"
	m.errorMsg = ""
	m.Show()
}

var itemFieldOrder = []string{"date", "name", "note"}

func (m *ItemModal) nextField() {
	for i, f := range itemFieldOrder {
		if f == m.activeField {
			m.activeField = itemFieldOrder[(i+1)%len(itemFieldOrder)]
			return
		}
	}
	m.activeField = itemFieldOrder[0]
}

// Update handles input for the item form
func (m ItemModal) Update(msg tea.Msg) (ItemModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.Hide()
		return m, nil

	case "tab":
		m.nextField()
		return m, nil

	case "enter":
		date := strings.TrimSpace(m.formFields["date"])
		name := strings.TrimSpace(m.formFields["name"])
		note := strings.TrimSpace(m.formFields["note"])

		if !stream.ValidDate(date) {
			m.errorMsg = "date must be yyyy-mm-dd"
			return m, nil
		}
		if name == "" {
			m.errorMsg = "name is required"
			return m, nil
		}
		return m, operations.AppendItem(m.lib, m.target, stream.Item{Date: date, Name: name, Ref: note})

	case "backspace":
		currentValue := m.formFields[m.activeField]
		if len(currentValue) > 0 {
			m.formFields[m.activeField] = currentValue[:len(currentValue)-1]
		}
		return m, nil
	}

	if len(keyMsg.String()) == 1 {
		m.formFields[m.activeField] += keyMsg.String()
	}
	return m, nil
}

// HandleResult reacts to the appended-item message.
func (m *ItemModal) HandleResult(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.Hide()
}

// View renders the item form
func (m ItemModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var lines []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	title := "ADD ITEM"
	if m.target != nil {
		title = "ADD ITEM TO " + strings.ToUpper(m.target.Name)
	}
	lines = append(lines, titleStyle.Render(title))
	lines = append(lines, "")

	lines = append(lines, m.renderField(theme, "date", "Date:", "2024-01-31")...)
	lines = append(lines, m.renderField(theme, "name", "Name:", "")...)
	lines = append(lines, m.renderField(theme, "note", "Note (optional):", "author, edition, url")...)

	lines = append(lines, theme.MutedStyle().Render("[tab] next field  [↵] save  [esc] cancel"))

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

func (m ItemModal) renderField(theme StyleTheme, field, label, placeholder string) []string {
	activeInputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Accent).
		Width(40).
		Padding(0, 1)

	inactiveInputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.DarkGray).
		Width(40).
		Padding(0, 1)

	lines := []string{theme.TextStyle().Render(label)}

	value := m.formFields[field]
	if m.activeField == field {
		lines = append(lines, activeInputStyle.Render(value+"█"))
	} else if value == "" && placeholder != "" {
		lines = append(lines, inactiveInputStyle.Render(theme.MutedStyle().Render(placeholder)))
	} else {
		lines = append(lines, inactiveInputStyle.Render(value))
	}
	return append(lines, "")
}

// ViewWithOverlay renders the form over a blanked background
func (m ItemModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}
