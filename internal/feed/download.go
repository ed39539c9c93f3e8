package feed

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Downloader streams payload bodies over HTTP so the ledger can copy them
// straight to disk without buffering whole episodes in memory.
type Downloader struct {
	client *http.Client
}

// NewDownloader builds a downloader whose requests give up after timeout.
func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{client: &http.Client{Timeout: timeout}}
}

// Open issues the GET and hands back the body for streaming. The caller
// owns the close.
func (d *Downloader) Open(url string) (io.ReadCloser, error) {
	resp, err := d.client.Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return resp.Body, nil
}
