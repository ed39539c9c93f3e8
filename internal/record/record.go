package record

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickpending/catchup/internal/stream"
)

// Record is the persisted state of one stream: its kind, optional remote
// source, and the consumption cursor.
type Record struct {
	Kind   stream.Kind
	Source string
	Cursor stream.Cursor
}

// MalformedError reports a state file that does not match the fixed schema
// for its declared kind. Operations on such a stream must stop; the file is
// never repaired automatically.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed stream record %s: %s", e.Path, e.Reason)
}

// Line indexes shared by the downloaded and linked layouts. Manual records
// have no source line, which shifts the cursor fields up by one.
const (
	kindLineIndex   = 0
	sourceLineIndex = 1
)

// recordLines is the total line count per kind, trailing blank included.
func recordLines(k stream.Kind) int {
	if k == stream.Manual {
		return 5
	}
	return 7
}

func dateIndex(k stream.Kind) int {
	if k == stream.Manual {
		return 1
	}
	return 2
}

func nameIndex(k stream.Kind) int {
	if k == stream.Manual {
		return 2
	}
	return 3
}

// refIndex is only meaningful for remote kinds.
func refIndex(k stream.Kind) int {
	return 4
}

func progressIndex(k stream.Kind) int {
	if k == stream.Manual {
		return 3
	}
	return 5
}

// Read parses the record file at path. The line count must match the schema
// of the kind named on the first line.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read stream record: %w", err)
	}
	lines, err := splitRecord(path, string(data))
	if err != nil {
		return Record{}, err
	}
	kind, err := stream.ParseKind(lines[kindLineIndex])
	if err != nil {
		return Record{}, &MalformedError{Path: path, Reason: err.Error()}
	}
	if len(lines) != recordLines(kind) {
		return Record{}, &MalformedError{
			Path:   path,
			Reason: fmt.Sprintf("%s record needs %d lines, found %d", kind, recordLines(kind), len(lines)),
		}
	}
	if lines[len(lines)-1] != "" {
		return Record{}, &MalformedError{Path: path, Reason: "missing trailing blank line"}
	}

	rec := Record{Kind: kind}
	if kind == stream.Manual {
		rec.Cursor = stream.Cursor{
			Date:     lines[dateIndex(kind)],
			Name:     lines[nameIndex(kind)],
			Progress: lines[progressIndex(kind)],
		}
		return rec, nil
	}
	rec.Source = lines[sourceLineIndex]
	rec.Cursor = stream.Cursor{
		Date:     lines[dateIndex(kind)],
		Name:     lines[nameIndex(kind)],
		Ref:      lines[refIndex(kind)],
		Progress: lines[progressIndex(kind)],
	}
	return rec, nil
}

// splitRecord turns file contents into logical lines. Every line, the last
// included, must end in a terminator; CRLF endings are tolerated.
func splitRecord(path, s string) ([]string, error) {
	if !strings.HasSuffix(s, "\n") {
		return nil, &MalformedError{Path: path, Reason: "missing final line terminator"}
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// contentLines serializes the record's fields in on-disk order, without the
// trailing blank line.
func contentLines(r Record) []string {
	if r.Kind == stream.Manual {
		return []string{string(r.Kind), r.Cursor.Date, r.Cursor.Name, r.Cursor.Progress}
	}
	return []string{string(r.Kind), r.Source, r.Cursor.Date, r.Cursor.Name, r.Cursor.Ref, r.Cursor.Progress}
}

func encode(r Record) ([]byte, error) {
	var b strings.Builder
	for _, line := range contentLines(r) {
		if strings.ContainsAny(line, "\r\n") {
			return nil, fmt.Errorf("record field %q contains a line terminator", line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Write emits the full record for its kind, every line terminated, with the
// blank line last. The file is replaced atomically.
func Write(path string, r Record) error {
	data, err := encode(r)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// Create writes a brand-new record, failing with os.ErrExist if one is
// already there. Stream creation and directory adoption both rely on this
// so two writers cannot clobber each other.
func Create(path string, r Record) error {
	data, err := encode(r)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create stream record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write stream record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close stream record: %w", err)
	}
	return nil
}

// OverwriteLines rewrites the given zero-indexed lines and leaves every
// other line's bytes as they were. Progress saves and cursor moves use this
// so unrelated fields are never re-derived.
func OverwriteLines(path string, repl map[int]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read stream record: %w", err)
	}
	s := string(data)
	if !strings.HasSuffix(s, "\n") {
		return &MalformedError{Path: path, Reason: "missing final line terminator"}
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for idx, line := range repl {
		if strings.ContainsAny(line, "\r\n") {
			return fmt.Errorf("record field %q contains a line terminator", line)
		}
		if idx < 0 || idx >= len(lines) {
			return &MalformedError{Path: path, Reason: fmt.Sprintf("no line %d to overwrite", idx)}
		}
		lines[idx] = line
	}
	return writeAtomic(path, []byte(strings.Join(lines, "\n")+"\n"))
}

// SaveProgress rewrites only the progress line.
func SaveProgress(path string, kind stream.Kind, value string) error {
	return OverwriteLines(path, map[int]string{progressIndex(kind): value})
}

// SaveDate rewrites only the cursor date line. Sentinel transitions use it
// so the rest of the cursor stays as a trace of the last real item.
func SaveDate(path string, kind stream.Kind, date string) error {
	return OverwriteLines(path, map[int]string{dateIndex(kind): date})
}

// SaveCursor rewrites the cursor lines together (date, name, ref for remote
// kinds, progress), leaving the kind and source lines untouched.
func SaveCursor(path string, kind stream.Kind, c stream.Cursor) error {
	repl := map[int]string{
		dateIndex(kind):     c.Date,
		nameIndex(kind):     c.Name,
		progressIndex(kind): c.Progress,
	}
	if kind.Remote() {
		repl[refIndex(kind)] = c.Ref
	}
	return OverwriteLines(path, repl)
}

// SaveSource rewrites the remote source line.
func SaveSource(path string, kind stream.Kind, source string) error {
	if !kind.Remote() {
		return fmt.Errorf("%s streams have no source line", kind)
	}
	return OverwriteLines(path, map[int]string{sourceLineIndex: source})
}

// writeAtomic replaces path via a temp file and rename, so an interrupted
// write can never leave a truncated record behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp record: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}
