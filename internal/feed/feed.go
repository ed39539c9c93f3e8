package feed

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one feed item normalized for synchronization: a resolved
// string-sortable date, the display title, the article link, and any
// attached enclosure URLs in feed order.
type Entry struct {
	Date       string
	Title      string
	Link       string
	Enclosures []string
}

// FetchError wraps a network or parse failure while reaching a feed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MissingDateError reports an entry carrying neither a published nor an
// updated timestamp; without a date the entry cannot be ordered or compared
// against the watermark.
type MissingDateError struct {
	Title string
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("feed entry %q has no published or updated date", e.Title)
}

// NoEnclosureError reports an entry without any enclosure link; downloaded
// streams have nothing to fetch for it.
type NoEnclosureError struct {
	Title string
}

func (e *NoEnclosureError) Error() string {
	return fmt.Sprintf("feed entry %q has no enclosure", e.Title)
}

// ExtensionError reports an enclosure URL whose path carries no usable
// trailing extension token.
type ExtensionError struct {
	URL string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("no file extension in enclosure url %s", e.URL)
}

// Fetcher retrieves and normalizes remote feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher builds a fetcher whose HTTP calls give up after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: parser}
}

// Fetch downloads and parses the feed at source, returning entries sorted
// ascending by date. Ties keep the feed's own relative order, so same-day
// episodes stay in publication sequence.
func (f *Fetcher) Fetch(source string) ([]Entry, error) {
	parsed, err := f.parser.ParseURL(source)
	if err != nil {
		return nil, &FetchError{URL: source, Err: err}
	}
	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		date, err := entryDate(item)
		if err != nil {
			return nil, err
		}
		entry := Entry{Date: date, Title: item.Title, Link: item.Link}
		for _, enc := range item.Enclosures {
			if enc != nil && enc.URL != "" {
				entry.Enclosures = append(entry.Enclosures, enc.URL)
			}
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

// entryDate resolves the published timestamp, falling back to updated.
func entryDate(item *gofeed.Item) (string, error) {
	when := item.PublishedParsed
	if when == nil {
		when = item.UpdatedParsed
	}
	if when == nil {
		return "", &MissingDateError{Title: item.Title}
	}
	return when.UTC().Format("2006-01-02"), nil
}

// EnclosureURL picks the entry's first enclosure link.
func (e Entry) EnclosureURL() (string, error) {
	if len(e.Enclosures) == 0 {
		return "", &NoEnclosureError{Title: e.Title}
	}
	return e.Enclosures[0], nil
}

// Extension extracts the trailing extension token from an enclosure URL,
// ignoring any query string or fragment. Only an alphanumeric token after
// the final dot of the path counts.
func Extension(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &ExtensionError{URL: rawURL}
	}
	ext := path.Ext(u.Path)
	if len(ext) < 2 {
		return "", &ExtensionError{URL: rawURL}
	}
	ext = ext[1:]
	for _, r := range ext {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			return "", &ExtensionError{URL: rawURL}
		}
	}
	return ext, nil
}
