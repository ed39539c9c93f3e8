package ledger

import (
	"io"

	"github.com/nickpending/catchup/internal/stream"
)

// Ledger is the ordered item store behind one stream. Downloaded streams
// are backed by the payload directory itself; linked and manual streams by
// an append-only queue file. Callers stay agnostic of which.
type Ledger interface {
	// List returns every stored item, oldest first. It is safe to call
	// repeatedly; the result reflects the backing store at call time.
	List() ([]stream.Item, error)

	// Append materializes one item. payload carries the body for
	// directory-backed ledgers and is ignored by queue-backed ones.
	Append(item stream.Item, payload io.Reader) error

	// Watermark returns the date of the newest stored item, or
	// stream.BeginningOfTime when the ledger is empty.
	Watermark() (string, error)
}

// ForStream picks the backend matching the stream's kind.
func ForStream(s *stream.Stream) Ledger {
	if s.Kind == stream.Downloaded {
		return &Dir{Path: s.Dir}
	}
	return &Queue{Path: s.QueuePath()}
}
