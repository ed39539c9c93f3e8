package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nickpending/catchup/internal/stream"
)

// Dir is the payload-directory ledger for downloaded streams. The file
// system is the data structure: names are date;name.extension, so the
// sorted directory listing is already in chronological order.
type Dir struct {
	Path string
}

// List enumerates stored payload files, oldest first. The state record and
// queue file are excluded by name; anything else that does not parse as a
// payload name (covers, editor droppings) is skipped.
func (d *Dir) List() ([]stream.Item, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("list payload directory: %w", err)
	}
	items := make([]stream.Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == stream.RecordFile || name == stream.QueueFile {
			continue
		}
		item, ok := stream.ParsePayloadName(name)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Append stores the payload under an exclusive-create policy: a file that
// already exists means the item was materialized by an earlier run, so the
// append reports success without touching it. A failed copy removes the
// partial file to keep the retry path clean.
func (d *Dir) Append(item stream.Item, payload io.Reader) error {
	path := filepath.Join(d.Path, item.PayloadName())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create payload file: %w", err)
	}
	if payload != nil {
		if _, err := io.Copy(f, payload); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("write payload file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close payload file: %w", err)
	}
	return nil
}

// Watermark is the date of the last file in sorted order.
func (d *Dir) Watermark() (string, error) {
	items, err := d.List()
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return stream.BeginningOfTime, nil
	}
	return items[len(items)-1].Date, nil
}
