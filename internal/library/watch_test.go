package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nickpending/catchup/internal/stream"
)

func waitSignal(t *testing.T, events <-chan struct{}, what string) {
	t.Helper()
	select {
	case _, ok := <-events:
		if !ok {
			t.Fatalf("events channel closed while waiting for %s", what)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no refresh signal after %s", what)
	}
}

func TestWatchSignalsOnChange(t *testing.T) {
	lib := newLibrary(t)
	if err := lib.CreateCategory("podcasts"); err != nil {
		t.Fatal(err)
	}
	st, err := lib.CreateStream("podcasts", "weekly", stream.Manual, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := lib.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(st.Dir, "queue.txt"), []byte("2024-01-01;New\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitSignal(t, events, "queue write")

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			// Drain a signal that was in flight when we canceled.
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestWatchPicksUpNewDirectories(t *testing.T) {
	lib := newLibrary(t)
	if err := lib.CreateCategory("podcasts"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := lib.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	st, err := lib.CreateStream("podcasts", "late", stream.Manual, "")
	if err != nil {
		t.Fatal(err)
	}
	waitSignal(t, events, "stream creation")

	// The new directory must be watched by now, so a write inside it
	// produces another signal.
	if err := os.WriteFile(filepath.Join(st.Dir, "queue.txt"), []byte("2024-01-01;X\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitSignal(t, events, "write inside new stream directory")
}
