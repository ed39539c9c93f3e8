package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nickpending/catchup/internal/stream"
)

func touch(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2024-01-02;Second.mp3", "b")
	touch(t, dir, "2024-01-01;First.mp3", "a")
	touch(t, dir, "2024-01-10;Tenth.ogg", "c")
	touch(t, dir, stream.RecordFile, "downloaded\n\n1000-01-01\n\n\n\n\n")
	touch(t, dir, stream.QueueFile, "")
	touch(t, dir, "cover.jpg", "not an item")
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	d := &Dir{Path: dir}
	items, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []stream.Item{
		{Date: "2024-01-01", Name: "First", Ref: "mp3"},
		{Date: "2024-01-02", Name: "Second", Ref: "mp3"},
		{Date: "2024-01-10", Name: "Tenth", Ref: "ogg"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestDirAppendWritesPayload(t *testing.T) {
	dir := t.TempDir()
	d := &Dir{Path: dir}
	item := stream.Item{Date: "2024-02-02", Name: "Ep 2", Ref: "mp3"}

	if err := d.Append(item, strings.NewReader("audio bytes")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "2024-02-02;Ep 2.mp3"))
	if err != nil {
		t.Fatalf("payload missing: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("payload = %q", data)
	}
}

func TestDirAppendExistingIsNoOp(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2024-02-02;Ep 2.mp3", "original")

	d := &Dir{Path: dir}
	item := stream.Item{Date: "2024-02-02", Name: "Ep 2", Ref: "mp3"}
	if err := d.Append(item, strings.NewReader("replacement")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "2024-02-02;Ep 2.mp3"))
	if string(data) != "original" {
		t.Errorf("existing payload overwritten: %q", data)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestDirAppendRemovesPartialFileOnCopyError(t *testing.T) {
	dir := t.TempDir()
	d := &Dir{Path: dir}
	item := stream.Item{Date: "2024-02-02", Name: "Ep 2", Ref: "mp3"}

	if err := d.Append(item, failingReader{}); err == nil {
		t.Fatal("Append should surface the copy error")
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-02-02;Ep 2.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Error("partial payload file left behind")
	}
}

func TestDirWatermark(t *testing.T) {
	dir := t.TempDir()
	d := &Dir{Path: dir}

	mark, err := d.Watermark()
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if mark != stream.BeginningOfTime {
		t.Errorf("empty watermark = %q", mark)
	}

	touch(t, dir, "2024-01-01;a.mp3", "")
	touch(t, dir, "2024-03-03;c.mp3", "")
	mark, err = d.Watermark()
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if mark != "2024-03-03" {
		t.Errorf("watermark = %q, want 2024-03-03", mark)
	}
}

func TestQueueListMissingFileIsEmpty(t *testing.T) {
	q := &Queue{Path: filepath.Join(t.TempDir(), stream.QueueFile)}
	items, err := q.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}
}

func TestQueueListParsesFields(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, stream.QueueFile,
		"2024-01-01;Intro;AuthorX\n"+
			"2024-01-02;No Meta\n"+
			"\n"+
			"2024-01-03;Semi;https://example.com/a;b=c\n")

	q := &Queue{Path: filepath.Join(dir, stream.QueueFile)}
	items, err := q.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []stream.Item{
		{Date: "2024-01-01", Name: "Intro", Ref: "AuthorX"},
		{Date: "2024-01-02", Name: "No Meta"},
		{Date: "2024-01-03", Name: "Semi", Ref: "https://example.com/a;b=c"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestQueueListRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, stream.QueueFile, "2024-01-01;ok\njust some text\n")

	q := &Queue{Path: filepath.Join(dir, stream.QueueFile)}
	if _, err := q.List(); err == nil {
		t.Fatal("List accepted a line without the separator")
	}
}

func TestQueueAppendForms(t *testing.T) {
	dir := t.TempDir()
	q := &Queue{Path: filepath.Join(dir, stream.QueueFile)}

	if err := q.Append(stream.Item{Date: "2024-01-01", Name: "A", Ref: "https://a"}, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := q.Append(stream.Item{Date: "2024-01-02", Name: "B"}, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(q.Path)
	if err != nil {
		t.Fatalf("read queue: %v", err)
	}
	want := "2024-01-01;A;https://a\n2024-01-02;B\n"
	if string(data) != want {
		t.Errorf("queue = %q, want %q", data, want)
	}
}

func TestQueueAppendKeepsExistingLines(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, stream.QueueFile, "2024-01-01;A;x\n")

	q := &Queue{Path: filepath.Join(dir, stream.QueueFile)}
	if err := q.Append(stream.Item{Date: "2024-01-02", Name: "B", Ref: "y"}, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, _ := os.ReadFile(q.Path)
	if string(data) != "2024-01-01;A;x\n2024-01-02;B;y\n" {
		t.Errorf("queue = %q", data)
	}
}

func TestQueueAppendRejectsUnsanitizedName(t *testing.T) {
	q := &Queue{Path: filepath.Join(t.TempDir(), stream.QueueFile)}
	err := q.Append(stream.Item{Date: "2024-01-01", Name: "a;b"}, nil)
	if err == nil {
		t.Fatal("Append accepted a name containing the separator")
	}
}

func TestQueueWatermark(t *testing.T) {
	dir := t.TempDir()
	q := &Queue{Path: filepath.Join(dir, stream.QueueFile)}

	mark, err := q.Watermark()
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if mark != stream.BeginningOfTime {
		t.Errorf("missing-file watermark = %q", mark)
	}

	touch(t, dir, stream.QueueFile, "2024-01-01;A\n2024-04-04;B;u\n")
	mark, err = q.Watermark()
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if mark != "2024-04-04" {
		t.Errorf("watermark = %q, want 2024-04-04", mark)
	}
}

func TestForStream(t *testing.T) {
	down := &stream.Stream{Kind: stream.Downloaded, Dir: "/tmp/x"}
	if _, ok := ForStream(down).(*Dir); !ok {
		t.Error("downloaded stream should get the directory ledger")
	}
	linked := &stream.Stream{Kind: stream.Linked, Dir: "/tmp/x"}
	if _, ok := ForStream(linked).(*Queue); !ok {
		t.Error("linked stream should get the queue ledger")
	}
	manual := &stream.Stream{Kind: stream.Manual, Dir: "/tmp/x"}
	if _, ok := ForStream(manual).(*Queue); !ok {
		t.Error("manual stream should get the queue ledger")
	}
}
