package operations

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/catchup/internal/cursor"
	"github.com/nickpending/catchup/internal/stream"
)

// Cursor operation result messages
type AdvanceDoneMsg struct {
	Stream  *stream.Stream
	Outcome cursor.Outcome
	Err     error
}

type ProgressSavedMsg struct {
	Stream *stream.Stream
	Value  string
	Err    error
}

// AdvanceCursor moves the stream's cursor one ledger entry forward
func AdvanceCursor(st *stream.Stream) tea.Cmd {
	return func() tea.Msg {
		outcome, err := cursor.Advance(st)
		return AdvanceDoneMsg{Stream: st, Outcome: outcome, Err: err}
	}
}

// SaveProgress stores a new progress note for the stream's cursor item
func SaveProgress(st *stream.Stream, value string) tea.Cmd {
	return func() tea.Msg {
		err := cursor.SetProgress(st, value)
		return ProgressSavedMsg{Stream: st, Value: value, Err: err}
	}
}
