package stream

import (
	"fmt"
	"path/filepath"
)

// Sentinel cursor dates. Real item dates are ISO yyyy-mm-dd and compare as
// strings, so BeginningOfTime sorts before every item and EndOfTime after.
const (
	BeginningOfTime = "1000-01-01"
	EndOfTime       = "9000-01-01"
)

// FieldSep joins item fields in queue lines and payload file names.
const FieldSep = ";"

// File names every stream directory may contain. Both are excluded from
// payload listings.
const (
	RecordFile = "info.txt"
	QueueFile  = "queue.txt"
)

// Kind identifies how a stream stores its items.
type Kind string

const (
	// Downloaded streams keep payload files locally, one per item.
	Downloaded Kind = "downloaded"
	// Linked streams keep item URLs in a queue file; payloads stay remote.
	Linked Kind = "linked"
	// Manual streams have no remote source; the queue is hand-curated.
	Manual Kind = "manual"
)

// ParseKind validates a kind tag read from a record file.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Downloaded, Linked, Manual:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown stream kind %q", s)
}

// Remote reports whether the kind can have a feed to synchronize from.
func (k Kind) Remote() bool {
	return k == Downloaded || k == Linked
}

// CursorState classifies where a stream's cursor sits.
type CursorState int

const (
	// NotStarted means the user has not consumed anything yet.
	NotStarted CursorState = iota
	// Active means the cursor names a concrete ledger item.
	Active
	// Exhausted means every known item has been consumed; the stream is
	// paused until synchronization finds newer ones.
	Exhausted
)

// Cursor is a stream's pointer to the item currently being consumed.
// Date and Name form the item key. Ref is the payload extension for
// downloaded streams and the URL for linked ones; manual streams leave it
// empty. Progress is an opaque user string (playback position, page).
type Cursor struct {
	Date     string
	Name     string
	Ref      string
	Progress string
}

// State derives the cursor state from its sentinel dates.
func (c Cursor) State() CursorState {
	switch c.Date {
	case BeginningOfTime:
		return NotStarted
	case EndOfTime:
		return Exhausted
	}
	return Active
}

// Stream is one content stream rooted at a directory on disk.
type Stream struct {
	Category string
	Name     string
	Kind     Kind
	Source   string // feed URL, empty for manual streams
	Cursor   Cursor
	Dir      string
}

// RecordPath returns the path of the stream's state record.
func (s *Stream) RecordPath() string {
	return filepath.Join(s.Dir, RecordFile)
}

// QueuePath returns the path of the stream's queue file.
func (s *Stream) QueuePath() string {
	return filepath.Join(s.Dir, QueueFile)
}
