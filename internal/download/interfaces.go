package download

import (
	"context"
	"time"

	"github.com/ytget/yt-notes/internal/model"
)

// Request describes one engine invocation
type Request struct {
	URL              string
	OutputDir        string
	FilenameTemplate string
	Format           string
	ExtractorArgs    string
	NotesOnly        bool // extract metadata only, retrieve no media
	WriteInfoJSON    bool
	WriteSubtitles   bool
}

// Progress is a single progress report from the engine
type Progress struct {
	DownloadedBytes int
	TotalBytes      int
	Started         time.Time
	ETA             time.Duration
	Title           string
}

// Engine runs the extraction engine. It returns one metadata record per
// video processed; download and extraction are a single call.
type Engine interface {
	Extract(ctx context.Context, req Request, progress func(Progress)) ([]*model.VideoMetadata, error)
}

// PlaylistExpander lists the videos of a playlist URL
type PlaylistExpander interface {
	ExpandPlaylist(ctx context.Context, url string) ([]*model.FeedItem, error)
}

// Fetcher fetches one URL and writes notes for every video it yields.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (*Result, error)
}
