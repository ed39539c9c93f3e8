package cursor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nickpending/catchup/internal/ledger"
	"github.com/nickpending/catchup/internal/record"
	"github.com/nickpending/catchup/internal/stream"
)

func newStream(t *testing.T, kind stream.Kind, source string, cur stream.Cursor) *stream.Stream {
	t.Helper()
	st := &stream.Stream{
		Category: "tech",
		Name:     "weekly",
		Kind:     kind,
		Source:   source,
		Cursor:   cur,
		Dir:      t.TempDir(),
	}
	err := record.Create(st.RecordPath(), record.Record{Kind: kind, Source: source, Cursor: cur})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return st
}

func appendQueue(t *testing.T, st *stream.Stream, items ...stream.Item) {
	t.Helper()
	q := &ledger.Queue{Path: st.QueuePath()}
	for _, item := range items {
		if err := q.Append(item, nil); err != nil {
			t.Fatalf("append %v: %v", item, err)
		}
	}
}

func recordBytes(t *testing.T, st *stream.Stream) string {
	t.Helper()
	data, err := os.ReadFile(st.RecordPath())
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	return string(data)
}

func TestAdvanceManualFirstEntry(t *testing.T) {
	st := newStream(t, stream.Manual, "", stream.Cursor{Date: stream.BeginningOfTime})
	appendQueue(t, st, stream.Item{Date: "2024-01-01", Name: "Intro", Ref: "AuthorX"})

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out != Advanced {
		t.Fatalf("outcome = %v, want Advanced", out)
	}
	want := stream.Cursor{Date: "2024-01-01", Name: "Intro", Progress: "0"}
	if diff := cmp.Diff(want, st.Cursor); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
	if got := recordBytes(t, st); got != "manual\n2024-01-01\nIntro\n0\n\n" {
		t.Errorf("record = %q", got)
	}
}

func TestAdvanceWalksQueueInOrder(t *testing.T) {
	st := newStream(t, stream.Manual, "", stream.Cursor{Date: stream.BeginningOfTime})
	appendQueue(t, st,
		stream.Item{Date: "2024-01-01", Name: "One"},
		stream.Item{Date: "2024-01-02", Name: "Two"},
		stream.Item{Date: "2024-01-03", Name: "Three"},
	)

	for _, wantName := range []string{"One", "Two", "Three"} {
		out, err := Advance(st)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if out != Advanced || st.Cursor.Name != wantName {
			t.Fatalf("got (%v, %q), want (Advanced, %q)", out, st.Cursor.Name, wantName)
		}
	}
	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance past end: %v", err)
	}
	if out != Exhausted || st.Cursor.Date != stream.EndOfTime {
		t.Errorf("got (%v, %q), want exhausted end sentinel", out, st.Cursor.Date)
	}
}

func TestAdvanceDownloadedPopulatesExtension(t *testing.T) {
	cur := stream.Cursor{Date: "2024-01-01", Name: "Alpha", Ref: "mp3", Progress: "10:00"}
	st := newStream(t, stream.Downloaded, "https://example.com/feed.xml", cur)
	for _, name := range []string{"2024-01-01;Alpha.mp3", "2024-01-02;Beta.ogg"} {
		if err := os.WriteFile(filepath.Join(st.Dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	want := stream.Cursor{Date: "2024-01-02", Name: "Beta", Ref: "ogg", Progress: "0"}
	if out != Advanced || st.Cursor != want {
		t.Errorf("got (%v, %+v), want (Advanced, %+v)", out, st.Cursor, want)
	}
	rec, err := record.Read(st.RecordPath())
	if err != nil {
		t.Fatalf("re-read record: %v", err)
	}
	if rec.Cursor != want {
		t.Errorf("persisted cursor = %+v, want %+v", rec.Cursor, want)
	}
}

func TestAdvanceLinkedPopulatesURL(t *testing.T) {
	st := newStream(t, stream.Linked, "https://example.com/feed.xml",
		stream.Cursor{Date: stream.BeginningOfTime})
	appendQueue(t, st, stream.Item{Date: "2024-05-05", Name: "A Post", Ref: "https://example.com/a"})

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	want := stream.Cursor{Date: "2024-05-05", Name: "A Post", Ref: "https://example.com/a", Progress: "0"}
	if out != Advanced || st.Cursor != want {
		t.Errorf("got (%v, %+v), want (Advanced, %+v)", out, st.Cursor, want)
	}
}

func TestAdvanceToExhaustionKeepsNameAndProgress(t *testing.T) {
	cur := stream.Cursor{Date: "2024-01-02", Name: "Beta", Progress: "halfway"}
	st := newStream(t, stream.Manual, "", cur)
	appendQueue(t, st,
		stream.Item{Date: "2024-01-01", Name: "Alpha"},
		stream.Item{Date: "2024-01-02", Name: "Beta"},
	)

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out != Exhausted {
		t.Fatalf("outcome = %v, want Exhausted", out)
	}
	if got := recordBytes(t, st); got != "manual\n9000-01-01\nBeta\nhalfway\n\n" {
		t.Errorf("record = %q", got)
	}
}

func TestAdvanceWhileExhaustedIsNoOp(t *testing.T) {
	cur := stream.Cursor{Date: stream.EndOfTime, Name: "Beta", Progress: "done"}
	st := newStream(t, stream.Manual, "", cur)
	appendQueue(t, st,
		stream.Item{Date: "2024-01-01", Name: "Alpha"},
		stream.Item{Date: "2024-01-02", Name: "Beta"},
		// Appended after the stream ran out; advance stays exhausted and
		// only a synchronize run can move the cursor onto new entries.
		stream.Item{Date: "2024-01-03", Name: "Gamma"},
	)
	before := recordBytes(t, st)

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out != Exhausted {
		t.Fatalf("outcome = %v, want Exhausted", out)
	}
	if after := recordBytes(t, st); after != before {
		t.Errorf("record changed from %q to %q", before, after)
	}
}

func TestAdvanceEmptyLedgerExhausts(t *testing.T) {
	st := newStream(t, stream.Manual, "", stream.Cursor{Date: stream.BeginningOfTime})

	out, err := Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out != Exhausted || st.Cursor.Date != stream.EndOfTime {
		t.Errorf("got (%v, %q), want exhausted end sentinel", out, st.Cursor.Date)
	}
}

func TestAdvanceCursorNotFound(t *testing.T) {
	cur := stream.Cursor{Date: "2024-01-05", Name: "Gone", Progress: "0"}
	st := newStream(t, stream.Manual, "", cur)
	appendQueue(t, st, stream.Item{Date: "2024-01-01", Name: "Alpha"})

	_, err := Advance(st)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Advance err = %v, want NotFoundError", err)
	}
	if notFound.Stream != "tech/weekly" || notFound.Date != "2024-01-05" || notFound.Name != "Gone" {
		t.Errorf("NotFoundError = %+v", notFound)
	}
	if st.Cursor != cur {
		t.Errorf("cursor mutated on failure: %+v", st.Cursor)
	}
}

func TestSetProgress(t *testing.T) {
	cur := stream.Cursor{Date: "2024-01-01", Name: "Alpha", Ref: "mp3", Progress: "0"}
	st := newStream(t, stream.Downloaded, "https://example.com/feed.xml", cur)

	if err := SetProgress(st, "23:45"); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	if st.Cursor.Progress != "23:45" {
		t.Errorf("in-memory progress = %q", st.Cursor.Progress)
	}
	want := "downloaded\nhttps://example.com/feed.xml\n2024-01-01\nAlpha\nmp3\n23:45\n\n"
	if got := recordBytes(t, st); got != want {
		t.Errorf("record = %q, want %q", got, want)
	}
}
