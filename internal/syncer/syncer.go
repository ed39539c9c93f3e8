// Package syncer pulls remote feeds and materializes new entries into
// stream ledgers, one stream at a time.
package syncer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nickpending/catchup/internal/feed"
	"github.com/nickpending/catchup/internal/ledger"
	"github.com/nickpending/catchup/internal/record"
	"github.com/nickpending/catchup/internal/stream"
)

// DefaultItemLimit caps how many payload files a downloaded stream may hold.
const DefaultItemLimit = 1000000

// DefaultTimeout bounds each feed fetch and payload download.
const DefaultTimeout = 30 * time.Second

// Progress receives one human-readable line per entry about to be
// materialized, in the form "<name> (<k>/<total>)".
type Progress func(string)

// Options tunes a Syncer. Zero values fall back to the defaults above.
type Options struct {
	ItemLimit int
	ASCIIOnly bool
	Timeout   time.Duration
}

// Syncer synchronizes streams against their remote sources.
type Syncer struct {
	fetcher    *feed.Fetcher
	downloader *feed.Downloader
	itemLimit  int
	asciiOnly  bool
	log        *zap.Logger
}

// New builds a Syncer. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Syncer {
	if opts.ItemLimit <= 0 {
		opts.ItemLimit = DefaultItemLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{
		fetcher:    feed.NewFetcher(opts.Timeout),
		downloader: feed.NewDownloader(opts.Timeout),
		itemLimit:  opts.ItemLimit,
		asciiOnly:  opts.ASCIIOnly,
		log:        log,
	}
}

// Sync fetches st's remote source and materializes every entry newer than
// the stream's watermark, oldest first. It returns how many entries were
// written. Manual streams and streams without a source are a no-op. On a
// materialization failure the count covers the entries already written;
// those stay valid and the next run resumes from the new watermark.
func (s *Syncer) Sync(st *stream.Stream, progress Progress) (int, error) {
	if !st.Kind.Remote() || st.Source == "" {
		return 0, nil
	}
	if progress == nil {
		progress = func(string) {}
	}
	s.log.Debug("synchronizing stream",
		zap.String("category", st.Category),
		zap.String("stream", st.Name),
		zap.String("kind", string(st.Kind)))

	entries, err := s.fetcher.Fetch(st.Source)
	if err != nil {
		return 0, err
	}

	var added int
	switch st.Kind {
	case stream.Downloaded:
		added, err = s.syncDownloaded(st, entries, progress)
	case stream.Linked:
		added, err = s.syncLinked(st, entries, progress)
	}
	if err == nil {
		s.log.Debug("synchronized stream",
			zap.String("category", st.Category),
			zap.String("stream", st.Name),
			zap.Int("added", added))
	}
	return added, err
}

func (s *Syncer) syncDownloaded(st *stream.Stream, entries []feed.Entry, progress Progress) (int, error) {
	led := &ledger.Dir{Path: st.Dir}
	stored, err := led.List()
	if err != nil {
		return 0, err
	}
	watermark := stream.BeginningOfTime
	if len(stored) > 0 {
		watermark = stored[len(stored)-1].Date
	}

	fresh := selectNew(entries, watermark)
	// Keep the oldest of the new entries; ones past the cap stay unfetched
	// until older payloads are pruned.
	if room := s.itemLimit - len(stored); len(fresh) > room {
		if room < 0 {
			room = 0
		}
		fresh = fresh[:room]
	}

	resume := st.Cursor.State() == stream.Exhausted
	added := 0
	for i, entry := range fresh {
		name := stream.SanitizeName(entry.Title, st.Kind, s.asciiOnly)
		progress(fmt.Sprintf("%s (%d/%d)", name, i+1, len(fresh)))

		encURL, err := entry.EnclosureURL()
		if err != nil {
			return added, err
		}
		ext, err := feed.Extension(encURL)
		if err != nil {
			return added, err
		}
		body, err := s.downloader.Open(encURL)
		if err != nil {
			return added, err
		}
		item := stream.Item{Date: entry.Date, Name: name, Ref: ext}
		err = led.Append(item, body)
		body.Close()
		if err != nil {
			return added, err
		}
		added++
		if resume {
			if err := s.resumeAt(st, item); err != nil {
				return added, err
			}
			resume = false
		}
	}
	return added, nil
}

func (s *Syncer) syncLinked(st *stream.Stream, entries []feed.Entry, progress Progress) (int, error) {
	q := &ledger.Queue{Path: st.QueuePath()}
	watermark, err := q.Watermark()
	if err != nil {
		return 0, err
	}

	fresh := selectNew(entries, watermark)
	resume := st.Cursor.State() == stream.Exhausted
	added := 0
	for i, entry := range fresh {
		name := stream.SanitizeName(entry.Title, st.Kind, s.asciiOnly)
		progress(fmt.Sprintf("%s (%d/%d)", name, i+1, len(fresh)))

		item := stream.Item{Date: entry.Date, Name: name, Ref: entry.Link}
		if err := q.Append(item, nil); err != nil {
			return added, err
		}
		added++
		if resume {
			if err := s.resumeAt(st, item); err != nil {
				return added, err
			}
			resume = false
		}
	}
	return added, nil
}

// resumeAt moves an exhausted stream's cursor onto the first entry written
// by this run, so the stream reads as active again.
func (s *Syncer) resumeAt(st *stream.Stream, item stream.Item) error {
	cur := stream.Cursor{Date: item.Date, Name: item.Name, Ref: item.Ref, Progress: "0"}
	if err := record.SaveCursor(st.RecordPath(), st.Kind, cur); err != nil {
		return err
	}
	st.Cursor = cur
	return nil
}

// Pending fetches st's source and reports the entries a Sync run would
// materialize, without writing anything. Ref carries the entry's link for
// display. Manual streams report nothing.
func (s *Syncer) Pending(st *stream.Stream) ([]stream.Item, error) {
	if !st.Kind.Remote() || st.Source == "" {
		return nil, nil
	}
	entries, err := s.fetcher.Fetch(st.Source)
	if err != nil {
		return nil, err
	}

	var fresh []feed.Entry
	switch st.Kind {
	case stream.Downloaded:
		stored, err := (&ledger.Dir{Path: st.Dir}).List()
		if err != nil {
			return nil, err
		}
		watermark := stream.BeginningOfTime
		if len(stored) > 0 {
			watermark = stored[len(stored)-1].Date
		}
		fresh = selectNew(entries, watermark)
		if room := s.itemLimit - len(stored); len(fresh) > room {
			if room < 0 {
				room = 0
			}
			fresh = fresh[:room]
		}
	case stream.Linked:
		watermark, err := (&ledger.Queue{Path: st.QueuePath()}).Watermark()
		if err != nil {
			return nil, err
		}
		fresh = selectNew(entries, watermark)
	}

	items := make([]stream.Item, 0, len(fresh))
	for _, entry := range fresh {
		items = append(items, stream.Item{
			Date: entry.Date,
			Name: stream.SanitizeName(entry.Title, st.Kind, s.asciiOnly),
			Ref:  entry.Link,
		})
	}
	return items, nil
}

// selectNew returns the suffix of entries dated strictly after the
// watermark. Entries arrive sorted ascending, so one scan finds the cut.
func selectNew(entries []feed.Entry, watermark string) []feed.Entry {
	for i, e := range entries {
		if e.Date > watermark {
			return entries[i:]
		}
	}
	return nil
}

// Result reports one stream's outcome within a batch run.
type Result struct {
	Stream *stream.Stream
	Added  int
	Err    error
}

// SyncAll synchronizes every stream in order, continuing past per-stream
// failures. The joined error collects every failure for the caller; the
// results slice keeps the per-stream breakdown.
func (s *Syncer) SyncAll(streams []*stream.Stream, progress Progress) ([]Result, error) {
	results := make([]Result, 0, len(streams))
	var errs []error
	for _, st := range streams {
		added, err := s.Sync(st, progress)
		if err != nil {
			s.log.Warn("stream synchronization failed",
				zap.String("category", st.Category),
				zap.String("stream", st.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s/%s: %w", st.Category, st.Name, err))
		}
		results = append(results, Result{Stream: st, Added: added, Err: err})
	}
	return results, errors.Join(errs...)
}
