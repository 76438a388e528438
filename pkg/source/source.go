// Package source fetches the raw response feed.
//
// A Source returns the feed body as bytes; decoding is left to the parser
// package so every source shares the same envelope handling.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/config"
	"github.com/0xmhha/landing-dashboard/pkg/parser"
)

// Source provides the raw feed body.
type Source interface {
	// Fetch retrieves the current feed. Fetch must honor ctx.
	Fetch(ctx context.Context) ([]byte, error)

	// Location names the feed for logs.
	Location() string
}

// HTTP fetches the feed with a GET request.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates an HTTP source. A zero timeout means no client timeout.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Location implements Source.
func (h *HTTP) Location() string {
	return h.url
}

// Fetch implements Source. Transport failures and non-2xx responses are
// returned as *NetworkError.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	if h.url == "" {
		return nil, ErrNoLocation
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, &NetworkError{URL: h.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: h.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &NetworkError{URL: h.url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, parser.MaxFeedSize+1))
	if err != nil {
		return nil, &NetworkError{URL: h.url, StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) > parser.MaxFeedSize {
		return nil, parser.ErrFeedTooLarge
	}

	return body, nil
}

// File reads the feed from a local JSON file.
type File struct {
	path string
}

// NewFile creates a file source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Location implements Source.
func (f *File) Location() string {
	return f.path
}

// Fetch implements Source.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if f.path == "" {
		return nil, ErrNoLocation
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return nil, fmt.Errorf("read feed file: %w", err)
	}
	if info.Size() > parser.MaxFeedSize {
		return nil, parser.ErrFeedTooLarge
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read feed file: %w", err)
	}
	return data, nil
}

// FromConfig builds the source selected by cfg. Validate guarantees that
// exactly one of URL and File is set.
func FromConfig(cfg config.SourceConfig) Source {
	if cfg.File != "" {
		return NewFile(cfg.File)
	}
	return NewHTTP(cfg.URL, cfg.Timeout)
}
