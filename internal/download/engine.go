package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-notes/internal/model"
	"github.com/ytget/yt-notes/internal/platform"
)

// ProgressInterval is how often yt-dlp progress is reported
const ProgressInterval = 500 * time.Millisecond

// errNoMetadata is returned when yt-dlp exits cleanly but prints no info
var errNoMetadata = errors.New("yt-dlp returned no metadata")

// YTDLPEngine runs the yt-dlp executable
type YTDLPEngine struct{}

// NewYTDLPEngine creates the yt-dlp backed engine
func NewYTDLPEngine() *YTDLPEngine {
	return &YTDLPEngine{}
}

// EnsureInstalled resolves the yt-dlp executable, downloading it when missing
func (e *YTDLPEngine) EnsureInstalled(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

// Extract runs yt-dlp once for req and parses the printed info JSON
func (e *YTDLPEngine) Extract(ctx context.Context, req Request, progress func(Progress)) ([]*model.VideoMetadata, error) {
	dl := newCommand(req)
	if progress != nil && !req.NotesOnly {
		dl = dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			progress(convertProgress(&update))
		})
	}

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		if result != nil {
			if detail := lastLine(result.Stderr); detail != "" {
				return nil, fmt.Errorf("%w: %s", err, detail)
			}
		}
		return nil, err
	}

	videos, err := platform.ParseInfoOutput(result.Stdout)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, errNoMetadata
	}
	return videos, nil
}

// newCommand configures yt-dlp for req. Exactly one format is selected, so
// no merging happens after download.
func newCommand(req Request) *ytdlp.Command {
	dl := ytdlp.New().
		Format(req.Format).
		Output(filepath.Join(req.OutputDir, req.FilenameTemplate))

	if req.ExtractorArgs != "" {
		dl = dl.ExtractorArgs(req.ExtractorArgs)
	}

	if req.NotesOnly {
		// --dump-json simulates: metadata only, nothing written
		return dl.DumpJSON()
	}

	dl = dl.PrintJSON()
	if req.WriteInfoJSON {
		dl = dl.WriteInfoJSON()
	}
	if req.WriteSubtitles {
		dl = dl.WriteSubs()
	}
	return dl
}

func convertProgress(update *ytdlp.ProgressUpdate) Progress {
	p := Progress{
		DownloadedBytes: update.DownloadedBytes,
		TotalBytes:      update.TotalBytes,
		Started:         update.Started,
		ETA:             update.ETA(),
	}
	if update.Info != nil && update.Info.Title != nil {
		p.Title = *update.Info.Title
	}
	return p
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
