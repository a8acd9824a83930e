package platform

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/yt-notes/internal/model"
	"github.com/ytget/ytdlp"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistParam = "list"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// infoJSON mirrors the subset of the yt-dlp info dictionary the notes need
type infoJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	WebpageURL  string  `json:"webpage_url"`
	Duration    float64 `json:"duration"`
	Filename    string  `json:"filename"`
	LegacyName  string  `json:"_filename"`
	Chapters    []struct {
		StartTime float64 `json:"start_time"`
		Title     string  `json:"title"`
	} `json:"chapters"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

// ParseInfoOutput parses JSON-lines info output printed by yt-dlp
// (--dump-json / --print-json). Lines that are not info objects, such as
// progress or warnings, are skipped.
func ParseInfoOutput(output string) ([]*model.VideoMetadata, error) {
	var videos []*model.VideoMetadata

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info infoJSON
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			continue
		}
		if info.ID == "" && info.Title == "" {
			continue
		}
		videos = append(videos, info.toMetadata())
	}
	if err := scanner.Err(); err != nil {
		return videos, fmt.Errorf("read yt-dlp output: %w", err)
	}
	return videos, nil
}

func (i *infoJSON) toMetadata() *model.VideoMetadata {
	meta := &model.VideoMetadata{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		WebpageURL:  i.WebpageURL,
		Duration:    i.Duration,
		Filename:    i.Filename,
	}
	if len(i.RequestedDownloads) > 0 && i.RequestedDownloads[0].Filepath != "" {
		meta.Filename = i.RequestedDownloads[0].Filepath
	} else if meta.Filename == "" {
		meta.Filename = i.LegacyName
	}
	if len(i.Chapters) > 0 {
		meta.Chapters = make([]model.Chapter, 0, len(i.Chapters))
		for _, c := range i.Chapters {
			meta.Chapters = append(meta.Chapters, model.Chapter{StartTime: c.StartTime, Title: c.Title})
		}
	}
	return meta
}

// YTDLPParserService expands YouTube playlists using the ytdlp library
type YTDLPParserService struct {
	timeout time.Duration
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ExpandPlaylist returns the video entries of a playlist URL in playlist order
func (y *YTDLPParserService) ExpandPlaylist(ctx context.Context, rawURL string) ([]*model.FeedItem, error) {
	playlistID := ExtractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]*model.FeedItem, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		entries = append(entries, &model.FeedItem{
			ID:    it.VideoID,
			Link:  fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
			Title: it.Title,
		})
	}
	return entries, nil
}

// IsPlaylistURL reports whether the URL carries a playlist parameter
func IsPlaylistURL(rawURL string) bool {
	return ExtractPlaylistID(rawURL) != ""
}

// ExtractPlaylistID extracts the playlist ID from various URL formats:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistParam)
}
