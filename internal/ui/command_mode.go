package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/commands"
)

// historyLimit bounds how many executed lines the : prompt recalls.
const historyLimit = 100

// clearErrorMsg dismisses a command error after its display window.
type clearErrorMsg struct{}

// CommandMode is the vim-style : line. It owns its input, completion
// cycle and history; the model routes every message here while active.
type CommandMode struct {
	active bool
	errMsg string
	width  int

	input    textinput.Model
	registry *commands.Registry

	// Completion cycle, valid until the typed text changes.
	suggestions    []string
	suggestionIdx  int
	completionBase string

	history    []string
	historyIdx int
}

// NewCommandMode returns an inactive command line wired to the built-in
// command registry.
func NewCommandMode() CommandMode {
	input := textinput.New()
	input.Prompt = ":"
	input.CharLimit = 256
	input.Width = 50

	return CommandMode{
		input:      input,
		registry:   commands.NewRegistry(),
		history:    make([]string, 0, historyLimit),
		historyIdx: -1,
		width:      80,
	}
}

// SetWidth resizes the rendered line.
func (c *CommandMode) SetWidth(width int) {
	c.width = width
	c.input.Width = width - 4
}

// IsActive reports whether the : line currently has the keyboard.
func (c CommandMode) IsActive() bool {
	return c.active
}

// Show opens the prompt with an empty line.
func (c *CommandMode) Show() {
	c.active = true
	c.errMsg = ""
	c.input.SetValue("")
	c.input.Focus()
	c.historyIdx = len(c.history)
	c.resetCompletion()
}

// Hide closes the prompt and drops any pending state.
func (c *CommandMode) Hide() {
	c.active = false
	c.errMsg = ""
	c.input.SetValue("")
	c.input.Blur()
	c.historyIdx = -1
	c.resetCompletion()
}

// SetError replaces the prompt with an error line and arms the timer
// that dismisses it.
func (c *CommandMode) SetError(msg string) tea.Cmd {
	c.active = true
	c.errMsg = msg
	c.input.Blur()

	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update handles messages while the prompt is active.
func (c *CommandMode) Update(msg tea.Msg) (CommandMode, tea.Cmd) {
	if !c.active {
		return *c, nil
	}

	switch msg := msg.(type) {
	case clearErrorMsg:
		c.Hide()
		return *c, nil

	case tea.KeyMsg:
		// An error line swallows one keypress and closes.
		if c.errMsg != "" {
			c.Hide()
			return *c, nil
		}

		switch msg.Type {
		case tea.KeyEscape, tea.KeyCtrlC:
			c.Hide()
			return *c, nil

		case tea.KeyEnter:
			return c.execute()

		case tea.KeyUp:
			c.recallOlder()
			return *c, nil

		case tea.KeyDown:
			c.recallNewer()
			return *c, nil

		case tea.KeyTab:
			c.completeNext()
			return *c, nil

		case tea.KeyBackspace:
			if c.input.Value() == "" {
				c.Hide()
				return *c, nil
			}
		}
	}

	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.resetCompletion()
	}

	return *c, cmd
}

// execute records the current line and dispatches it through the registry.
func (c *CommandMode) execute() (CommandMode, tea.Cmd) {
	line := strings.TrimSpace(c.input.Value())
	if line == "" {
		c.Hide()
		return *c, nil
	}

	c.remember(line)
	c.Hide()

	parts := parseCommandWithQuotes(line)
	if len(parts) == 0 {
		return *c, nil
	}
	return *c, c.registry.Execute(parts[0], parts[1:])
}

// recallOlder steps back through history.
func (c *CommandMode) recallOlder() {
	if c.historyIdx <= 0 {
		return
	}
	c.historyIdx--
	c.input.SetValue(c.history[c.historyIdx])
	c.input.CursorEnd()
}

// recallNewer steps forward through history, ending on a blank line past
// the newest entry.
func (c *CommandMode) recallNewer() {
	switch {
	case c.historyIdx < len(c.history)-1:
		c.historyIdx++
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	case c.historyIdx == len(c.history)-1:
		c.historyIdx = len(c.history)
		c.input.SetValue("")
	}
}

// completeNext applies the next completion for the typed prefix,
// recomputing the candidate list when the text no longer comes from the
// current cycle.
func (c *CommandMode) completeNext() {
	current := c.input.Value()
	if current == "" {
		return
	}

	if !c.cycling(current) {
		c.completionBase = current
		c.suggestions = c.completions(current)
		c.suggestionIdx = 0
		if len(c.suggestions) == 0 {
			return
		}
	}

	c.input.SetValue(c.suggestions[c.suggestionIdx])
	c.input.CursorEnd()
	c.suggestionIdx = (c.suggestionIdx + 1) % len(c.suggestions)
}

// cycling reports whether the input still shows this cycle's base text
// or the completion most recently applied from it.
func (c *CommandMode) cycling(current string) bool {
	if len(c.suggestions) == 0 {
		return false
	}
	if current == c.completionBase {
		return true
	}
	last := (c.suggestionIdx - 1 + len(c.suggestions)) % len(c.suggestions)
	return current == c.suggestions[last]
}

// completions returns the registered commands matching prefix.
func (c *CommandMode) completions(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var matches []string
	for _, name := range c.registry.GetCommands() {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// resetCompletion drops the cycle so the next tab recomputes.
func (c *CommandMode) resetCompletion() {
	c.suggestions = nil
	c.suggestionIdx = 0
	c.completionBase = ""
}

// remember appends an executed line, collapsing consecutive duplicates
// and keeping the list bounded.
func (c *CommandMode) remember(line string) {
	if n := len(c.history); n > 0 && c.history[n-1] == line {
		return
	}
	if len(c.history) >= historyLimit {
		c.history = c.history[1:]
	}
	c.history = append(c.history, line)
}

// View renders the prompt, or the current error in its place.
func (c CommandMode) View(theme StyleTheme) string {
	if !c.active {
		return ""
	}

	if c.errMsg != "" {
		return lipgloss.NewStyle().
			Foreground(theme.Red).
			Width(c.width).
			Padding(0, 1).
			Render(c.errMsg)
	}

	line := c.input.View()
	if n := len(c.suggestions); n > 1 {
		// suggestionIdx already points at the next candidate
		shown := c.suggestionIdx
		if shown == 0 {
			shown = n
		}
		line += fmt.Sprintf(" [%d/%d]", shown, n)
	}

	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(c.width).
		Padding(0, 1).
		Render(line)
}

// parseCommandWithQuotes splits a command line into words, honoring
// double quotes and backslash escapes.
func parseCommandWithQuotes(line string) []string {
	var (
		parts   []string
		word    strings.Builder
		quoted  bool
		escaped bool
	)

	flush := func() {
		if word.Len() > 0 {
			parts = append(parts, word.String())
			word.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ' ' && !quoted:
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()

	return parts
}
