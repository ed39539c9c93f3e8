package ui

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

//go:embed intro.md
var introMarkdown string

// IntroModal shows the getting-started guide rendered from markdown
type IntroModal struct {
	Modal
	viewport  viewport.Model
	themeName string // theme the content was last rendered with
	renderErr error
}

// NewIntroModal creates a new IntroModal instance
func NewIntroModal() IntroModal {
	return IntroModal{
		Modal:    NewModal("", 76, 28),
		viewport: viewport.New(0, 0),
	}
}

// SetSize updates the modal size and re-renders the markdown to fit
func (m *IntroModal) SetSize(width, height int, theme StyleTheme) {
	modalWidth := int(float64(width) * 0.8)
	modalHeight := height - 6

	if modalWidth < 56 {
		modalWidth = 56
	}
	if modalHeight < 16 {
		modalHeight = 16
	}
	if modalWidth > width-4 {
		modalWidth = maxInt(width-4, 20)
	}

	resized := m.width != modalWidth || m.height != modalHeight
	m.width = modalWidth
	m.height = modalHeight

	m.viewport.Width = modalWidth - 6
	m.viewport.Height = modalHeight - 6

	if resized || m.themeName != theme.Name {
		m.renderContent(theme)
	}
}

// renderContent runs the embedded markdown through glamour at the current
// width and palette
func (m *IntroModal) renderContent(theme StyleTheme) {
	m.themeName = theme.Name

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.ToGlamourStyle()),
		glamour.WithWordWrap(maxInt(m.viewport.Width, 20)),
	)
	if err != nil {
		m.renderErr = err
		m.viewport.SetContent(strings.TrimSpace(introMarkdown))
		return
	}

	content, err := renderer.Render(strings.TrimSpace(introMarkdown))
	if err != nil {
		m.renderErr = err
		m.viewport.SetContent(strings.TrimSpace(introMarkdown))
		return
	}

	m.renderErr = nil
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// ShowWith opens the guide, rendering for the current theme if needed.
func (m *IntroModal) ShowWith(theme StyleTheme) {
	if m.themeName != theme.Name || m.viewport.Height == 0 {
		m.renderContent(theme)
	}
	m.viewport.GotoTop()
	m.Show()
}

// Update handles input for the intro modal
func (m IntroModal) Update(msg tea.Msg) (IntroModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "i":
			m.Hide()
			return m, nil
		case "j", "down":
			m.viewport.LineDown(1)
			return m, nil
		case "k", "up":
			m.viewport.LineUp(1)
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the intro modal
func (m IntroModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var content strings.Builder
	content.WriteString(m.viewport.View())
	content.WriteString("\n")
	content.WriteString(theme.MutedStyle().Render("[j/k] scroll  [esc] close"))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(content.String())
}

// ViewWithOverlay renders the guide over a blanked background
func (m IntroModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	return overlayView(m.View(theme), backgroundView, termWidth, termHeight, m.width)
}
