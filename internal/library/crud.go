package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nickpending/catchup/internal/ledger"
	"github.com/nickpending/catchup/internal/record"
	"github.com/nickpending/catchup/internal/stream"
)

// validName rejects names that cannot serve as one directory component.
func validName(name string) error {
	if name == "" {
		return errors.New("name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

// CreateCategory makes a new category directory.
func (l *Library) CreateCategory(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Mkdir(l.categoryPath(name), 0755); err != nil {
		return fmt.Errorf("failed to create category %s: %w", name, err)
	}
	l.log.Info("created category", zap.String("category", name))
	return nil
}

// RenameCategory moves a category directory to a new name. Streams inside
// move with it.
func (l *Library) RenameCategory(oldName, newName string) error {
	if err := validName(newName); err != nil {
		return err
	}
	target := l.categoryPath(newName)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("category %s already exists", newName)
	}
	if err := os.Rename(l.categoryPath(oldName), target); err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	l.log.Info("renamed category",
		zap.String("from", oldName), zap.String("to", newName))
	return nil
}

// CreateStream declares a new stream under category with a fresh record and
// the cursor at the beginning sentinel. Linked and manual streams also get
// an empty queue file. Manual streams must not carry a source.
func (l *Library) CreateStream(category, name string, kind stream.Kind, source string) (*stream.Stream, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if kind == stream.Manual && source != "" {
		return nil, errors.New("manual streams have no remote source")
	}

	dir := filepath.Join(l.categoryPath(category), name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stream directory: %w", err)
	}
	st := &stream.Stream{
		Category: category,
		Name:     name,
		Kind:     kind,
		Source:   source,
		Cursor:   stream.Cursor{Date: stream.BeginningOfTime},
		Dir:      dir,
	}
	rec := record.Record{Kind: kind, Source: source, Cursor: st.Cursor}
	if err := record.Create(st.RecordPath(), rec); err != nil {
		os.Remove(dir)
		return nil, err
	}
	if kind != stream.Downloaded {
		if err := ensureQueue(st.QueuePath()); err != nil {
			return nil, err
		}
	}
	l.log.Info("created stream",
		zap.String("category", category),
		zap.String("stream", name),
		zap.String("kind", string(kind)))
	return st, nil
}

// UpdateStream renames or moves a stream and rewrites its source line. The
// kind is immutable; callers pass the current values for fields that stay
// put. st is updated in place on success.
func (l *Library) UpdateStream(st *stream.Stream, newCategory, newName, newSource string) error {
	if err := validName(newName); err != nil {
		return err
	}
	if st.Kind == stream.Manual && newSource != "" {
		return errors.New("manual streams have no remote source")
	}

	target := filepath.Join(l.categoryPath(newCategory), newName)
	if target != st.Dir {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("stream %s/%s already exists", newCategory, newName)
		}
		if err := os.Rename(st.Dir, target); err != nil {
			return fmt.Errorf("failed to move stream: %w", err)
		}
		st.Category = newCategory
		st.Name = newName
		st.Dir = target
	}
	if st.Kind.Remote() && newSource != st.Source {
		if err := record.SaveSource(st.RecordPath(), st.Kind, newSource); err != nil {
			return err
		}
		st.Source = newSource
	}
	return nil
}

// AppendManualItem appends one hand-curated entry to a manual stream's
// queue. The name is stripped of field separators before writing; the ref
// field is free metadata such as an author or origin.
func (l *Library) AppendManualItem(st *stream.Stream, item stream.Item) error {
	if st.Kind != stream.Manual {
		return fmt.Errorf("%s streams take items from their remote source", st.Kind)
	}
	if !stream.ValidDate(item.Date) {
		return fmt.Errorf("invalid item date %q", item.Date)
	}
	item.Name = stream.SanitizeName(item.Name, st.Kind, false)
	if item.Name == "" {
		return errors.New("item name is empty")
	}
	return (&ledger.Queue{Path: st.QueuePath()}).Append(item, nil)
}
