package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nickpending/catchup/internal/stream"
)

// Queue is the append-only queue.txt ledger used by linked and manual
// streams: one item per line, fields joined by the separator, every line
// terminated. Existing lines are never rewritten.
type Queue struct {
	Path string
}

// List parses one item per line. A missing or empty queue file is an empty
// ledger; manual queues are hand-curated and may not exist yet. Blank lines
// are skipped, but a non-blank line without a date;name shape is an error
// rather than a silent hole in the stream.
func (q *Queue) List() ([]stream.Item, error) {
	data, err := os.ReadFile(q.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read queue: %w", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	items := make([]stream.Item, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, stream.FieldSep, 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("queue %s line %d: expected date%sname", q.Path, i+1, stream.FieldSep)
		}
		item := stream.Item{Date: fields[0], Name: fields[1]}
		if len(fields) == 3 {
			item.Ref = fields[2]
		}
		items = append(items, item)
	}
	return items, nil
}

// Append writes one line after the last existing one. The ref field is
// omitted when empty, matching hand-written manual entries.
func (q *Queue) Append(item stream.Item, _ io.Reader) error {
	if strings.Contains(item.Name, stream.FieldSep) {
		return fmt.Errorf("item name %q contains the field separator", item.Name)
	}
	line := item.Date + stream.FieldSep + item.Name
	if item.Ref != "" {
		line += stream.FieldSep + item.Ref
	}
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("queue line %q contains a line terminator", line)
	}
	f, err := os.OpenFile(q.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append queue line: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	return nil
}

// Watermark reads the date field of the last line without building the full
// item list; metadata appends keep the file ordered, so the last line is
// always the newest.
func (q *Queue) Watermark() (string, error) {
	data, err := os.ReadFile(q.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stream.BeginningOfTime, nil
		}
		return "", fmt.Errorf("read queue: %w", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSuffix(lines[i], "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, stream.FieldSep, 2)
		if len(fields) < 2 {
			return "", fmt.Errorf("queue %s line %d: expected date%sname", q.Path, i+1, stream.FieldSep)
		}
		return fields[0], nil
	}
	return stream.BeginningOfTime, nil
}
