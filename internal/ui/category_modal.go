package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// CategoryModal is the add/rename form for a category
type CategoryModal struct {
	Modal
	lib      *library.Library
	mode     string // "add" or "rename"
	original string // category being renamed
	name     string
	errorMsg string
}

// NewCategoryModal creates a new CategoryModal instance
func NewCategoryModal(lib *library.Library) CategoryModal {
	return CategoryModal{
		Modal: NewModal("", 46, 8),
		lib:   lib,
		mode:  "add",
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *CategoryModal) SetSize(width, height int) {
	modalWidth := 46
	if width < 52 {
		modalWidth = width - 5
	}
	m.width = modalWidth
}

// ShowAdd opens the form for a new category.
func (m *CategoryModal) ShowAdd() {
	m.mode = "add"
	m.original = ""
	m.name = ""
	m.errorMsg = ""
	m.Show()
}

// ShowRename opens the form prefilled with an existing category name.
func (m *CategoryModal) ShowRename(current string) {
	m.mode = "rename"
	m.original = current
	m.name = current
	m.errorMsg = ""
	m.Show()
}

// Update handles input for the category form
func (m CategoryModal) Update(msg tea.Msg) (CategoryModal, tea.Cmd) {
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

	case "enter":
		name := strings.TrimSpace(m.name)
		if name == "" {
			m.errorMsg = "name is required"
			return m, nil
		}
		if m.mode == "rename" {
			if name == m.original {
				m.Hide()
				return m, nil
			}
			return m, operations.RenameCategory(m.lib, m.original, name)
		}
		return m, operations.CreateCategory(m.lib, name)

	case "backspace":
		if len(m.name) > 0 {
			m.name = m.name[:len(m.name)-1]
		}
		return m, nil
	}

	if len(keyMsg.String()) == 1 {
		m.name += keyMsg.String()
	}
	return m, nil
}

// HandleResult reacts to the saved-category message.
func (m *CategoryModal) HandleResult(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.Hide()
}

// View renders the category form
func (m CategoryModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var lines []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	if m.mode == "rename" {
		lines = append(lines, titleStyle.Render("RENAME CATEGORY"))
	} else {
		lines = append(lines, titleStyle.Render("ADD CATEGORY"))
	}
	lines = append(lines, "")

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Accent).
		Width(36).
		Padding(0, 1)

	lines = append(lines, theme.TextStyle().Render("Name:"))
	lines = append(lines, inputStyle.Render(m.name+"█"))
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
func (m CategoryModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}
