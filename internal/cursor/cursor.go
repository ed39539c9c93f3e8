// Package cursor moves a stream's reading position through its ledger and
// persists every move to the stream record.
package cursor

import (
	"fmt"

	"github.com/nickpending/catchup/internal/ledger"
	"github.com/nickpending/catchup/internal/record"
	"github.com/nickpending/catchup/internal/stream"
)

// NotFoundError reports a persisted cursor that names an entry absent from
// the stream's ledger, usually after files were renamed or removed by hand.
type NotFoundError struct {
	Stream string
	Date   string
	Name   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cursor entry %s%s%s not found in ledger for %s",
		e.Date, stream.FieldSep, e.Name, e.Stream)
}

// Outcome tells where an advance landed.
type Outcome int

const (
	// Advanced means the cursor moved onto the next ledger entry.
	Advanced Outcome = iota
	// Exhausted means no next entry exists and the stream is caught up.
	Exhausted
)

// Advance moves st's cursor one entry forward in ledger order and persists
// the move. A stream that was never started lands on the oldest entry.
// Stepping past the newest entry writes the end sentinel into the date
// field and leaves name and progress untouched; advancing again while still
// exhausted changes nothing. On success st.Cursor mirrors the record file.
func Advance(st *stream.Stream) (Outcome, error) {
	items, err := ledger.ForStream(st).List()
	if err != nil {
		return 0, err
	}

	idx := -1
	switch st.Cursor.State() {
	case stream.NotStarted:
		idx = -1
	case stream.Exhausted:
		idx = len(items) - 1
	case stream.Active:
		idx = locate(items, st.Cursor)
		if idx < 0 {
			return 0, &NotFoundError{
				Stream: st.Category + "/" + st.Name,
				Date:   st.Cursor.Date,
				Name:   st.Cursor.Name,
			}
		}
	}

	if idx+1 >= len(items) {
		if st.Cursor.State() == stream.Exhausted {
			return Exhausted, nil
		}
		if err := record.SaveDate(st.RecordPath(), st.Kind, stream.EndOfTime); err != nil {
			return 0, err
		}
		st.Cursor.Date = stream.EndOfTime
		return Exhausted, nil
	}

	item := items[idx+1]
	next := stream.Cursor{Date: item.Date, Name: item.Name, Progress: "0"}
	if st.Kind.Remote() {
		next.Ref = item.Ref
	}
	if err := record.SaveCursor(st.RecordPath(), st.Kind, next); err != nil {
		return 0, err
	}
	st.Cursor = next
	return Advanced, nil
}

// SetProgress replaces the free-form progress note on st's record.
func SetProgress(st *stream.Stream, value string) error {
	if err := record.SaveProgress(st.RecordPath(), st.Kind, value); err != nil {
		return err
	}
	st.Cursor.Progress = value
	return nil
}

// locate finds the ledger index the cursor points at, or -1.
func locate(items []stream.Item, c stream.Cursor) int {
	for i, item := range items {
		if item.Matches(c) {
			return i
		}
	}
	return -1
}
