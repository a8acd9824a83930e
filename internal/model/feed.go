package model

import "time"

// FeedItem is a single entry of a syndication feed
type FeedItem struct {
	ID        string    `json:"id"`
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	Published time.Time `json:"published,omitempty"`
}

// Key returns the identifier used for deduplication: the entry ID, or the link
// when the feed carries no ID.
func (i *FeedItem) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Link
}

// Feed represents a parsed feed document with entries in document order
type Feed struct {
	URL       string      `json:"url"`
	Title     string      `json:"title"`
	Items     []*FeedItem `json:"items"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// NewFeed creates a new feed instance
func NewFeed(url string) *Feed {
	return &Feed{
		URL:       url,
		Items:     make([]*FeedItem, 0),
		FetchedAt: time.Now(),
	}
}

// AddItem appends an entry to the feed
func (f *Feed) AddItem(item *FeedItem) {
	f.Items = append(f.Items, item)
}

// Len returns the number of entries
func (f *Feed) Len() int {
	return len(f.Items)
}
