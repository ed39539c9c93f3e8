package operations

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/syncer"
)

// SyncProgressMsg carries one progress line from a running synchronize batch
type SyncProgressMsg struct {
	Line string
}

// SyncDoneMsg reports the end of a synchronize batch
type SyncDoneMsg struct {
	Results []syncer.Result
	Err     error
}

// StartSync runs the batch on its own goroutine and returns the channel its
// progress and completion messages arrive on. The model must reject other
// engine operations until SyncDoneMsg lands; the engine is not safe for
// concurrent use.
func StartSync(engine *syncer.Syncer, streams []*stream.Stream) chan tea.Msg {
	ch := make(chan tea.Msg, 16)
	go func() {
		results, err := engine.SyncAll(streams, func(line string) {
			ch <- SyncProgressMsg{Line: line}
		})
		ch <- SyncDoneMsg{Results: results, Err: err}
		close(ch)
	}()
	return ch
}

// ListenSync waits for the next message from a running batch. The model
// re-arms it after every message until the channel closes.
func ListenSync(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Added sums the new item counts across a batch's results.
func Added(results []syncer.Result) int {
	total := 0
	for _, r := range results {
		total += r.Added
	}
	return total
}
