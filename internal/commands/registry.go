package commands

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFunc builds the tea.Cmd for one : command invocation.
type CommandFunc func(args []string) tea.Cmd

// Registry maps command names to their handlers. Only full names are
// registered; Execute resolves prefixes.
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry returns a registry with every built-in command.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	r.Register("quit", cmdQuit)
	r.Register("refresh", cmdRefresh)
	r.Register("intro", cmdIntro)
	r.Register("add", cmdAdd)
	r.Register("edit", cmdEdit)
	r.Register("category", cmdCategory)
	r.Register("item", cmdItem)
	r.Register("memo", cmdMemo)
	r.Register("sync", cmdSync)
	r.Register("theme", cmdTheme)

	// These four act on the selected stream's cursor.
	r.Register("advance", cmdAdvance)
	r.Register("progress", cmdProgress)
	r.Register("open", cmdOpen)
	r.Register("yank", cmdYank)

	return r
}

// Register binds a name to its handler.
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute resolves name vim-style and runs it: an exact match wins,
// otherwise a case-insensitive prefix must name exactly one command.
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	matches := r.matching(name)
	switch len(matches) {
	case 1:
		return r.commands[matches[0]](args)
	case 0:
		return showError(fmt.Sprintf("Unknown command: %s", name))
	}
	return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
}

// GetCommands lists every registered name, sorted so completion cycles
// in a stable order.
func (r *Registry) GetCommands() []string {
	return r.matching("")
}

// matching returns the registered names prefix matches, sorted.
func (r *Registry) matching(prefix string) []string {
	prefix = strings.ToLower(prefix)
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Built-in handlers.

// cmdQuit ends the program
func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// cmdRefresh reloads the library from disk
func cmdRefresh(args []string) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// cmdIntro shows the introduction modal
func cmdIntro(args []string) tea.Cmd {
	return func() tea.Msg {
		return IntroMsg{}
	}
}

// cmdAdd opens the stream form for a new stream
func cmdAdd(args []string) tea.Cmd {
	return func() tea.Msg {
		return AddStreamMsg{}
	}
}

// cmdEdit opens the stream form for the selected stream
func cmdEdit(args []string) tea.Cmd {
	return func() tea.Msg {
		return EditStreamMsg{}
	}
}

// cmdCategory creates a category directly or opens the category form
func cmdCategory(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return CategoryMsg{}
		}
		return CategoryMsg{Name: strings.Join(args, " ")}
	}
}

// cmdItem opens the manual item form for the selected stream
func cmdItem(args []string) tea.Cmd {
	return func() tea.Msg {
		return ItemMsg{}
	}
}

// cmdMemo opens the memo editor
func cmdMemo(args []string) tea.Cmd {
	return func() tea.Msg {
		return MemoMsg{}
	}
}

// cmdSync synchronizes the selected stream, or every stream with "all"
func cmdSync(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) > 0 {
			if args[0] != "all" {
				return ErrorMsg{Message: fmt.Sprintf("sync: unknown argument '%s' (use: sync, sync all)", args[0])}
			}
			return SyncMsg{All: true}
		}
		return SyncMsg{}
	}
}

// cmdTheme switches to a named theme or cycles to the next one
func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) > 0 {
			return ThemeMsg{Name: args[0]}
		}
		return ThemeMsg{}
	}
}

// cmdAdvance moves the selected stream's cursor to the next item
func cmdAdvance(args []string) tea.Cmd {
	return func() tea.Msg {
		return AdvanceMsg{}
	}
}

// cmdProgress records a progress note on the selected stream's cursor
func cmdProgress(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "progress: value required (playback position, page, chapter)"}
		}
		return ProgressMsg{Value: strings.Join(args, " ")}
	}
}

// cmdOpen opens the selected stream's current item
func cmdOpen(args []string) tea.Cmd {
	return func() tea.Msg {
		return OpenMsg{}
	}
}

// cmdYank copies the selected stream's current item target to the clipboard
func cmdYank(args []string) tea.Cmd {
	return func() tea.Msg {
		return YankMsg{}
	}
}

// showError wraps msg for the command line's error display
func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: msg}
	}
}

// Messages the handlers emit. The model translates these into actions;
// keyboard shortcuts share most of them.

// RefreshMsg signals that the library should be reloaded
type RefreshMsg struct{}

// ErrorMsg carries a message for the command line's error display
type ErrorMsg struct {
	Message string
}

// IntroMsg signals to show the introduction modal
type IntroMsg struct{}

// AddStreamMsg signals to open the stream form for a new stream
type AddStreamMsg struct{}

// EditStreamMsg signals to open the stream form for the selected stream
type EditStreamMsg struct{}

// CategoryMsg signals category creation; an empty name opens the form
type CategoryMsg struct {
	Name string
}

// ItemMsg signals to open the manual item form
type ItemMsg struct{}

// MemoMsg signals to open the memo editor
type MemoMsg struct{}

// SyncMsg signals a synchronize run
type SyncMsg struct {
	All bool
}

// ThemeMsg signals a theme switch; an empty name cycles
type ThemeMsg struct {
	Name string
}

// AdvanceMsg signals a cursor advance on the selected stream
type AdvanceMsg struct{}

// ProgressMsg carries a progress note for the selected stream
type ProgressMsg struct {
	Value string
}

// OpenMsg signals to open the current item
type OpenMsg struct{}

// YankMsg signals to copy the current item target
type YankMsg struct{}
