// Package library discovers and manages the on-disk stream library: a root
// directory holding a memo file and one directory per category, each with
// one directory per stream.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nickpending/catchup/internal/ledger"
	"github.com/nickpending/catchup/internal/record"
	"github.com/nickpending/catchup/internal/stream"
)

const (
	categoriesDir = "categories"
	memoFile      = "memo.txt"
)

// Library is a handle on one library root.
type Library struct {
	root string
	log  *zap.Logger
}

// Open prepares the library at root, creating the categories directory when
// missing. A nil logger disables logging.
func Open(root string, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Join(root, categoriesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to prepare library at %s: %w", root, err)
	}
	return &Library{root: root, log: log}, nil
}

// Root returns the library root directory.
func (l *Library) Root() string { return l.root }

func (l *Library) categoriesPath() string {
	return filepath.Join(l.root, categoriesDir)
}

func (l *Library) categoryPath(name string) string {
	return filepath.Join(l.categoriesPath(), name)
}

// Category groups the streams under one category directory.
type Category struct {
	Name    string
	Streams []*stream.Stream
}

// Lead returns the stream to read next: the one whose cursor date sorts
// smallest, stream name breaking ties. Nil for an empty category. Sentinel
// ordering puts never-started streams first and exhausted streams last.
func (c *Category) Lead() *stream.Stream {
	var lead *stream.Stream
	for _, st := range c.Streams {
		if lead == nil ||
			st.Cursor.Date < lead.Cursor.Date ||
			(st.Cursor.Date == lead.Cursor.Date && st.Name < lead.Name) {
			lead = st
		}
	}
	return lead
}

// Stream finds a stream by name, or nil.
func (c *Category) Stream(name string) *stream.Stream {
	for _, st := range c.Streams {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// Categories scans the library and loads every stream record. Categories
// and streams come back sorted by name. Streams that fail to load are
// skipped and their errors joined into the second return value, so one
// malformed record does not hide the rest of the library.
func (l *Library) Categories() ([]*Category, error) {
	dirs, err := os.ReadDir(l.categoriesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	var categories []*Category
	var broken []error
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		cat := &Category{Name: d.Name()}
		catPath := l.categoryPath(d.Name())
		streamDirs, err := os.ReadDir(catPath)
		if err != nil {
			broken = append(broken, fmt.Errorf("failed to scan category %s: %w", d.Name(), err))
			continue
		}
		for _, sd := range streamDirs {
			if !sd.IsDir() {
				continue
			}
			st, err := l.loadStream(d.Name(), filepath.Join(catPath, sd.Name()), sd.Name())
			if err != nil {
				broken = append(broken, err)
				continue
			}
			cat.Streams = append(cat.Streams, st)
		}
		categories = append(categories, cat)
	}
	return categories, errors.Join(broken...)
}

// loadStream reads one stream directory's record, adopting recordless
// directories that already hold payload files.
func (l *Library) loadStream(category, dir, name string) (*stream.Stream, error) {
	recordPath := filepath.Join(dir, stream.RecordFile)
	rec, err := record.Read(recordPath)
	if errors.Is(err, os.ErrNotExist) {
		rec, err = l.adopt(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stream %s/%s: %w", category, name, err)
	}

	st := &stream.Stream{
		Category: category,
		Name:     name,
		Kind:     rec.Kind,
		Source:   rec.Source,
		Cursor:   rec.Cursor,
		Dir:      dir,
	}
	if st.Kind != stream.Downloaded {
		if err := ensureQueue(st.QueuePath()); err != nil {
			return nil, fmt.Errorf("stream %s/%s: %w", category, name, err)
		}
	}
	return st, nil
}

// adopt synthesizes a downloaded-stream record for a directory that has
// payload files but no record, placing the cursor on the oldest item. The
// exclusive create means a concurrent adoption loses cleanly and we read
// back whatever won.
func (l *Library) adopt(dir string) (record.Record, error) {
	items, err := (&ledger.Dir{Path: dir}).List()
	if err != nil {
		return record.Record{}, err
	}
	if len(items) == 0 {
		return record.Record{}, errors.New("no stream record and no payload files")
	}

	oldest := items[0]
	rec := record.Record{
		Kind: stream.Downloaded,
		Cursor: stream.Cursor{
			Date:     oldest.Date,
			Name:     oldest.Name,
			Ref:      oldest.Ref,
			Progress: "0",
		},
	}
	recordPath := filepath.Join(dir, stream.RecordFile)
	err = record.Create(recordPath, rec)
	if errors.Is(err, os.ErrExist) {
		return record.Read(recordPath)
	}
	if err != nil {
		return record.Record{}, err
	}
	l.log.Info("adopted stream directory", zap.String("dir", dir))
	return rec, nil
}

// ensureQueue makes sure a linked or manual stream has its queue file, so
// appends and watermark reads never trip over a missing file.
func ensureQueue(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to ensure queue file: %w", err)
	}
	return f.Close()
}

// Memo reads the library's free-text memo, creating an empty file on first
// read.
func (l *Library) Memo() (string, error) {
	path := filepath.Join(l.root, memoFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return "", fmt.Errorf("failed to create memo: %w", err)
		}
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read memo: %w", err)
	}
	return string(data), nil
}

// SaveMemo replaces the memo contents.
func (l *Library) SaveMemo(text string) error {
	if err := os.WriteFile(filepath.Join(l.root, memoFile), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to save memo: %w", err)
	}
	return nil
}
