// Package watch polls a feed and fetches every entry it has not seen before.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/ytget/yt-notes/internal/download"
	"github.com/ytget/yt-notes/internal/feed"
	"github.com/ytget/yt-notes/internal/model"
	"github.com/ytget/yt-notes/internal/storage"
)

// DefaultInterval is the polling period when none is configured
const DefaultInterval = 300 * time.Second

// Source retrieves the current feed document
type Source interface {
	Fetch(ctx context.Context, feedURL string) (*model.Feed, error)
}

// SeenStore records identifiers of processed feed entries
type SeenStore interface {
	Has(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, id string) error
}

// Loop is the watch-mode state machine. It is either polling or stopped;
// it stops only on a feed parse failure or context cancellation.
type Loop struct {
	feedURL  string
	source   Source
	fetcher  download.Fetcher
	seen     SeenStore
	unsaved  *storage.MemorySet // fetched entries the seen store failed to record
	interval time.Duration
	opts     download.Options
	log      *log.Helper
	after    func(time.Duration) <-chan time.Time
}

// Option configures a Loop
type Option func(*Loop)

// WithSeenStore replaces the default in-memory seen set
func WithSeenStore(store SeenStore) Option {
	return func(l *Loop) { l.seen = store }
}

// WithFetchOptions sets the options passed to the fetcher for every new entry
func WithFetchOptions(opts download.Options) Option {
	return func(l *Loop) {
		l.opts = opts
		l.opts.NotesOnly = false
	}
}

// New creates a loop polling feedURL every interval
func New(feedURL string, source Source, fetcher download.Fetcher, interval time.Duration, logger log.Logger, opts ...Option) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Loop{
		feedURL:  feedURL,
		source:   source,
		fetcher:  fetcher,
		seen:     storage.NewMemorySet(),
		unsaved:  storage.NewMemorySet(),
		interval: interval,
		log:      log.NewHelper(log.With(logger, "module", "watch")),
		after:    time.After,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run polls until the feed fails to parse or ctx is cancelled. A parse
// failure is returned as *feed.ParseError; cancellation as ctx.Err().
// Any other poll failure is logged and retried after the interval.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Infof("Watching channel feed: %s (every %s)", l.feedURL, l.interval)

	for {
		err := l.poll(ctx)
		switch {
		case errors.Is(err, feed.ErrParse):
			l.log.Warnf("Feed parse failed, stopping watch: %v", err)
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			l.log.Errorf("Watch poll error: %v", err)
		}

		if err := l.sleep(ctx); err != nil {
			return err
		}
	}
}

// poll runs one cycle: fetch the feed, then process unseen entries in order
func (l *Loop) poll(ctx context.Context) error {
	current, err := l.source.Fetch(ctx, l.feedURL)
	if err != nil {
		return err
	}

	fresh := 0
	for _, item := range current.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := item.Key()
		if key == "" {
			l.log.Warnf("skipping feed entry without id or link: %q", item.Title)
			continue
		}

		if ok, _ := l.unsaved.Has(ctx, key); ok {
			l.retrySave(ctx, key)
			continue
		}
		seen, err := l.seen.Has(ctx, key)
		if err != nil {
			return fmt.Errorf("check seen set: %w", err)
		}
		if seen {
			continue
		}

		fresh++
		if item.Link == "" {
			l.log.Warnf("feed entry %s has no link, marking seen", key)
		} else {
			if item.Published.IsZero() {
				l.log.Infof("New video: %s", item.Title)
			} else {
				l.log.Infof("New video: %s (published %s)", item.Title, item.Published.Format(time.DateOnly))
			}
			// failures are logged by the fetcher; the entry is still marked seen
			if _, err := l.fetcher.Fetch(ctx, item.Link, l.opts); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}

		if err := l.seen.Add(ctx, key); err != nil {
			_ = l.unsaved.Add(ctx, key)
			return fmt.Errorf("mark %s seen: %w", key, err)
		}
	}

	l.log.Debugf("poll of feed fetched at %s complete: %d entries, %d new", current.FetchedAt.Format(time.TimeOnly), current.Len(), fresh)
	return nil
}

// retrySave records an entry the seen store previously failed to record
func (l *Loop) retrySave(ctx context.Context, key string) {
	if err := l.seen.Add(ctx, key); err != nil {
		l.log.Debugf("mark %s seen still failing: %v", key, err)
		return
	}
	l.unsaved.Remove(key)
}

// sleep waits for the interval or until ctx is cancelled
func (l *Loop) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.after(l.interval):
		return nil
	}
}
