package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// streamKinds is the cycling order of the kind selector
var streamKinds = []stream.Kind{stream.Downloaded, stream.Linked, stream.Manual}

// StreamModal is the add/edit form for a stream
type StreamModal struct {
	Modal
	lib  *library.Library
	mode string // "add" or "edit"

	target     *stream.Stream // stream being edited, nil in add mode
	category   string
	formFields map[string]string // "name", "source"
	kindIdx    int
	activeField string
	errorMsg    string
}

// NewStreamModal creates a new StreamModal instance
func NewStreamModal(lib *library.Library) StreamModal {
	return StreamModal{
		Modal:      NewModal("", 52, 16),
		lib:        lib,
		mode:       "add",
		formFields: make(map[string]string),
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *StreamModal) SetSize(width, height int) {
	modalWidth := 52
	modalHeight := 16

	if width < 58 {
		modalWidth = width - 5
	}
	if height < 19 {
		modalHeight = height - 3
	}

	m.width = modalWidth
	m.height = modalHeight
}

// ShowAdd opens the form for a new stream under the given category.
func (m *StreamModal) ShowAdd(category string) {
	m.mode = "add"
	m.target = nil
	m.category = category
	m.formFields = map[string]string{"category": category, "name": "", "source": ""}
	m.kindIdx = 0
	m.activeField = "name"
	m.errorMsg = ""
	m.Show()
}

// ShowEdit opens the form prefilled with an existing stream. The kind is
// fixed once a stream exists; only category, name, and source can change.
func (m *StreamModal) ShowEdit(st *stream.Stream) {
	m.mode = "edit"
	m.target = st
	m.category = st.Category
	m.formFields = map[string]string{"category": st.Category, "name": st.Name, "source": st.Source}
	for i, k := range streamKinds {
		if k == st.Kind {
			m.kindIdx = i
		}
	}
	m.activeField = "name"
	m.errorMsg = ""
	m.Show()
}

// kind returns the currently selected stream kind.
func (m StreamModal) kind() stream.Kind {
	if m.mode == "edit" {
		return m.target.Kind
	}
	return streamKinds[m.kindIdx]
}

// fieldOrder lists the tab cycle. Manual streams have no source field and
// an existing stream's kind cannot change.
func (m StreamModal) fieldOrder() []string {
	fields := []string{"category", "name"}
	if m.mode == "add" {
		fields = append(fields, "kind")
	}
	if m.kind() != stream.Manual {
		fields = append(fields, "source")
	}
	return fields
}

func (m *StreamModal) nextField() {
	order := m.fieldOrder()
	for i, f := range order {
		if f == m.activeField {
			m.activeField = order[(i+1)%len(order)]
			return
		}
	}
	m.activeField = order[0]
}

// Update handles input for the stream form
func (m StreamModal) Update(msg tea.Msg) (StreamModal, tea.Cmd) {
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
		return m.submit()

	case "backspace":
		if m.activeField != "kind" {
			currentValue := m.formFields[m.activeField]
			if len(currentValue) > 0 {
				m.formFields[m.activeField] = currentValue[:len(currentValue)-1]
			}
		}
		return m, nil

	case "left", "right", " ":
		if m.activeField == "kind" {
			if keyMsg.String() == "left" {
				m.kindIdx = (m.kindIdx + len(streamKinds) - 1) % len(streamKinds)
			} else {
				m.kindIdx = (m.kindIdx + 1) % len(streamKinds)
			}
			// The source field disappears when manual is selected
			if m.kind() == stream.Manual && m.activeField == "source" {
				m.activeField = "kind"
			}
			return m, nil
		}
	}

	// Add character to the active text field
	if m.activeField != "kind" && len(keyMsg.String()) == 1 {
		m.formFields[m.activeField] += keyMsg.String()
	}
	return m, nil
}

// submit validates the form and returns the library operation to run.
func (m StreamModal) submit() (StreamModal, tea.Cmd) {
	category := strings.TrimSpace(m.formFields["category"])
	name := strings.TrimSpace(m.formFields["name"])
	source := strings.TrimSpace(m.formFields["source"])

	if category == "" {
		m.errorMsg = "category is required"
		return m, nil
	}
	if name == "" {
		m.errorMsg = "name is required"
		return m, nil
	}
	if m.kind() == stream.Manual && source != "" {
		m.errorMsg = "manual streams have no remote source"
		return m, nil
	}

	if m.mode == "edit" {
		if category == m.target.Category && name == m.target.Name && source == m.target.Source {
			// Nothing changed
			m.Hide()
			return m, nil
		}
		return m, operations.UpdateStream(m.lib, m.target, category, name, source)
	}
	return m, operations.CreateStream(m.lib, category, name, m.kind(), source)
}

// HandleResult reacts to the saved-stream message: errors keep the form
// open, success dismisses it.
func (m *StreamModal) HandleResult(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		return
	}
	m.Hide()
}

// View renders the stream form
func (m StreamModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var lines []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	if m.mode == "edit" {
		lines = append(lines, titleStyle.Render("EDIT STREAM"))
	} else {
		lines = append(lines, titleStyle.Render("ADD STREAM"))
	}
	lines = append(lines, "")

	lines = append(lines, m.renderField(theme, "category", "Category:", "")...)
	lines = append(lines, m.renderField(theme, "name", "Name:", "")...)

	// Kind selector
	lines = append(lines, theme.TextStyle().Render("Kind:"))
	lines = append(lines, m.renderKind(theme))
	lines = append(lines, "")

	if m.kind() != stream.Manual {
		lines = append(lines, m.renderField(theme, "source", "Feed URL:", "https://example.com/feed.xml")...)
	}

	if m.mode == "add" {
		lines = append(lines, theme.MutedStyle().Render("[tab] next field  [←/→] kind  [↵] save  [esc] cancel"))
	} else {
		lines = append(lines, theme.MutedStyle().Render("[tab] next field  [↵] save  [esc] cancel"))
	}

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

// renderField draws one labeled text input with the active-field cursor
func (m StreamModal) renderField(theme StyleTheme, field, label, placeholder string) []string {
	activeInputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Accent).
		Width(42).
		Padding(0, 1)

	inactiveInputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.DarkGray).
		Width(42).
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

// renderKind draws the kind selector row
func (m StreamModal) renderKind(theme StyleTheme) string {
	if m.mode == "edit" {
		return "  " + theme.MutedStyle().Render(string(m.kind())+" (fixed)")
	}

	var parts []string
	for i, k := range streamKinds {
		label := string(k)
		if i == m.kindIdx {
			if m.activeField == "kind" {
				parts = append(parts, theme.SelectedStyle().Render("▸ "+label))
			} else {
				parts = append(parts, theme.TextStyle().Render("▸ "+label))
			}
		} else {
			parts = append(parts, theme.MutedStyle().Render("  "+label))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

// ViewWithOverlay renders the form over a blanked background
func (m StreamModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}

// Title line for status messages after a save
func streamSavedStatus(created bool, st *stream.Stream) string {
	if st == nil {
		return "✓ Stream saved"
	}
	if created {
		return fmt.Sprintf("✓ Added %s/%s", st.Category, st.Name)
	}
	return fmt.Sprintf("✓ Updated %s/%s", st.Category, st.Name)
}
