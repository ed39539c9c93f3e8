package feed

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Cast</title>
<link>https://example.com</link>
<description>fixture</description>
<item>
<title>Episode 3</title>
<link>https://example.com/3</link>
<pubDate>Wed, 03 Jan 2024 12:00:00 +0000</pubDate>
<enclosure url="https://example.com/3.mp3" length="1" type="audio/mpeg"/>
</item>
<item>
<title>Episode 1</title>
<link>https://example.com/1</link>
<pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>
<enclosure url="https://example.com/1.mp3" length="1" type="audio/mpeg"/>
</item>
<item>
<title>Episode 2</title>
<link>https://example.com/2</link>
<pubDate>Tue, 02 Jan 2024 12:00:00 +0000</pubDate>
<enclosure url="https://example.com/2.mp3" length="1" type="audio/mpeg"/>
</item>
</channel>
</rss>`

func serveXML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSortsAscendingByDate(t *testing.T) {
	srv := serveXML(t, rssFixture)

	f := NewFetcher(5 * time.Second)
	entries, err := f.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if entries[i].Date != want {
			t.Errorf("entries[%d].Date = %q, want %q", i, entries[i].Date, want)
		}
	}
	if entries[0].Title != "Episode 1" || entries[0].Link != "https://example.com/1" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if len(entries[0].Enclosures) != 1 || entries[0].Enclosures[0] != "https://example.com/1.mp3" {
		t.Errorf("entries[0].Enclosures = %v", entries[0].Enclosures)
	}
}

func TestFetchKeepsFeedOrderForSameDay(t *testing.T) {
	fixture := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item><title>Listed First</title><pubDate>Fri, 05 Jan 2024 18:00:00 +0000</pubDate></item>
<item><title>Listed Second</title><pubDate>Fri, 05 Jan 2024 06:00:00 +0000</pubDate></item>
</channel></rss>`
	srv := serveXML(t, fixture)

	f := NewFetcher(5 * time.Second)
	entries, err := f.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Title != "Listed First" || entries[1].Title != "Listed Second" {
		t.Errorf("same-day order not preserved: %q, %q", entries[0].Title, entries[1].Title)
	}
}

func TestFetchFallsBackToUpdatedDate(t *testing.T) {
	fixture := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Blog</title>
<id>urn:fixture</id>
<updated>2024-01-01T00:00:00Z</updated>
<entry>
<title>Post</title>
<id>urn:fixture:1</id>
<link href="https://example.com/p1"/>
<updated>2024-02-10T12:00:00Z</updated>
</entry>
</feed>`
	srv := serveXML(t, fixture)

	f := NewFetcher(5 * time.Second)
	entries, err := f.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 1 || entries[0].Date != "2024-02-10" {
		t.Errorf("entries = %+v, want one dated 2024-02-10", entries)
	}
}

func TestFetchMissingDate(t *testing.T) {
	fixture := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item><title>Undated</title><link>https://example.com/u</link></item>
</channel></rss>`
	srv := serveXML(t, fixture)

	f := NewFetcher(5 * time.Second)
	_, err := f.Fetch(srv.URL)
	var missing *MissingDateError
	if !errors.As(err, &missing) {
		t.Fatalf("Fetch err = %v, want MissingDateError", err)
	}
	if missing.Title != "Undated" {
		t.Errorf("MissingDateError.Title = %q", missing.Title)
	}
}

func TestFetchHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Fetch(srv.URL)
	var fetch *FetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("Fetch err = %v, want FetchError", err)
	}
}

func TestEnclosureURL(t *testing.T) {
	e := Entry{Title: "Ep", Enclosures: []string{"https://a", "https://b"}}
	got, err := e.EnclosureURL()
	if err != nil || got != "https://a" {
		t.Errorf("EnclosureURL = %q, %v", got, err)
	}

	var missing *NoEnclosureError
	if _, err := (Entry{Title: "Bare"}).EnclosureURL(); !errors.As(err, &missing) {
		t.Errorf("EnclosureURL err = %v, want NoEnclosureError", err)
	}
}

func TestExtension(t *testing.T) {
	good := map[string]string{
		"https://example.com/audio/ep1.mp3":      "mp3",
		"https://example.com/ep1.mp3?session=42": "mp3",
		"https://example.com/ep1.ogg#t=30":       "ogg",
		"https://example.com/archive.tar.gz":     "gz",
		"https://example.com/EP1.M4A":            "M4A",
	}
	for rawURL, want := range good {
		got, err := Extension(rawURL)
		if err != nil {
			t.Errorf("Extension(%q): %v", rawURL, err)
			continue
		}
		if got != want {
			t.Errorf("Extension(%q) = %q, want %q", rawURL, got, want)
		}
	}

	bad := []string{
		"https://example.com/file",
		"https://example.com/name.",
		"https://example.com/dir.v2/file",
		"https://example.com/ep.mp%33%",
		"https://example.com/question?ext=.mp3",
	}
	for _, rawURL := range bad {
		if _, err := Extension(rawURL); err == nil {
			t.Errorf("Extension(%q) should fail", rawURL)
		}
		var extErr *ExtensionError
		if _, err := Extension(rawURL); !errors.As(err, &extErr) {
			t.Errorf("Extension(%q) err type = %T", rawURL, err)
		}
	}
}

func TestDownloaderOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload bytes")
	}))
	defer srv.Close()

	d := NewDownloader(5 * time.Second)
	body, err := d.Open(srv.URL + "/x.mp3")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "payload bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestDownloaderOpenBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDownloader(5 * time.Second)
	_, err := d.Open(srv.URL)
	var fetch *FetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("Open err = %v, want FetchError", err)
	}
}
