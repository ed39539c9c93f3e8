package operations

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/stream"
)

// Library mutation result messages
type StreamSavedMsg struct {
	Stream  *stream.Stream
	Created bool
	Err     error
}

type CategorySavedMsg struct {
	Name string
	Err  error
}

type ItemAppendedMsg struct {
	Stream *stream.Stream
	Item   stream.Item
	Err    error
}

type MemoSavedMsg struct {
	Err error
}

// CreateStream registers a fresh stream directory under the category
func CreateStream(lib *library.Library, category, name string, kind stream.Kind, source string) tea.Cmd {
	return func() tea.Msg {
		st, err := lib.CreateStream(category, name, kind, source)
		return StreamSavedMsg{Stream: st, Created: true, Err: err}
	}
}

// UpdateStream renames or repoints an existing stream
func UpdateStream(lib *library.Library, st *stream.Stream, newCategory, newName, newSource string) tea.Cmd {
	return func() tea.Msg {
		err := lib.UpdateStream(st, newCategory, newName, newSource)
		return StreamSavedMsg{Stream: st, Err: err}
	}
}

// CreateCategory adds a new category directory
func CreateCategory(lib *library.Library, name string) tea.Cmd {
	return func() tea.Msg {
		err := lib.CreateCategory(name)
		return CategorySavedMsg{Name: name, Err: err}
	}
}

// RenameCategory moves a category and every stream beneath it
func RenameCategory(lib *library.Library, oldName, newName string) tea.Cmd {
	return func() tea.Msg {
		err := lib.RenameCategory(oldName, newName)
		return CategorySavedMsg{Name: newName, Err: err}
	}
}

// AppendItem adds a hand-entered entry to a manual stream's queue
func AppendItem(lib *library.Library, st *stream.Stream, item stream.Item) tea.Cmd {
	return func() tea.Msg {
		err := lib.AppendManualItem(st, item)
		return ItemAppendedMsg{Stream: st, Item: item, Err: err}
	}
}

// SaveMemo persists the library-wide scratch note
func SaveMemo(lib *library.Library, text string) tea.Cmd {
	return func() tea.Msg {
		err := lib.SaveMemo(text)
		return MemoSavedMsg{Err: err}
	}
}
