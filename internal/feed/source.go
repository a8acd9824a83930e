// Package feed retrieves and parses syndication feeds (RSS, Atom, JSON Feed).
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ytget/yt-notes/internal/model"
)

// Request constants
const (
	DefaultTimeout = 30 * time.Second
	MaxBodyBytes   = 10 << 20
	UserAgent      = "yt-notes/1.0 (+feed watcher)"
)

var (
	// ErrParse is matched by errors.Is for every *ParseError
	ErrParse = errors.New("feed parse failed")
	// ErrBodyTooLarge means the feed document exceeded MaxBodyBytes
	ErrBodyTooLarge = errors.New("feed body too large")
)

// ParseError means the feed URL or document is structurally unusable.
// Retrying will not help.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// HTTPError is a non-2xx response from the feed server. Client errors
// other than 408 and 429 are wrapped in *ParseError.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch feed %s: unexpected status %s", e.URL, e.Status)
}

// Source fetches feeds over HTTP and parses them with gofeed
type Source struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewSource creates a feed source. A nil client gets DefaultTimeout.
func NewSource(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Source{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses the feed at feedURL. Transport failures,
// server errors and oversized bodies are returned as-is; malformed URLs,
// client errors and malformed documents are returned as *ParseError.
func (s *Source) Fetch(ctx context.Context, feedURL string) (*model.Feed, error) {
	u, err := url.Parse(feedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("unsupported feed URL")
		}
		return nil, &ParseError{URL: feedURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &ParseError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{URL: feedURL, StatusCode: resp.StatusCode, Status: resp.Status}
		if permanentStatus(resp.StatusCode) {
			return nil, &ParseError{URL: feedURL, Err: httpErr}
		}
		return nil, httpErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", feedURL, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("read feed %s: %w (limit %d bytes)", feedURL, ErrBodyTooLarge, MaxBodyBytes)
	}

	parsed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: feedURL, Err: err}
	}

	return toModel(feedURL, parsed), nil
}

// permanentStatus reports whether a status means the URL itself is wrong
func permanentStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}

func toModel(feedURL string, parsed *gofeed.Feed) *model.Feed {
	feed := model.NewFeed(feedURL)
	feed.Title = parsed.Title
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entry := &model.FeedItem{
			ID:    item.GUID,
			Link:  item.Link,
			Title: item.Title,
		}
		if entry.Link == "" && len(item.Links) > 0 {
			entry.Link = item.Links[0]
		}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		}
		feed.AddItem(entry)
	}
	return feed
}
