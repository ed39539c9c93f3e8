package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchSettle is how long the watcher waits after the last filesystem event
// before signaling, so an editor save or a sync run collapses into one
// refresh.
const watchSettle = 250 * time.Millisecond

// Watch signals on the returned channel whenever something under the
// categories tree changes, coalescing bursts into a single notification.
// The channel is closed when ctx is done. Callers that lag simply miss
// intermediate signals; the channel never blocks the watcher.
func (l *Library) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dirs, err := collectDirs(l.categoriesPath())
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to enumerate library directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	events := make(chan struct{}, 1)
	go l.watchLoop(ctx, watcher, events)
	return events, nil
}

func (l *Library) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- struct{}) {
	defer close(events)
	defer watcher.Close()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.log.Warn("library watcher error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				// New category or stream directories need their own watch
				// to capture subsequent writes inside them.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						l.log.Warn("failed to watch new directory",
							zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			settle = time.After(watchSettle)
		case <-settle:
			settle = nil
			select {
			case events <- struct{}{}:
			default:
			}
		}
	}
}

// collectDirs walks base and returns it plus every directory below it.
func collectDirs(base string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
