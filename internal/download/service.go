package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/ytget/yt-notes/internal/config"
	"github.com/ytget/yt-notes/internal/model"
	"github.com/ytget/yt-notes/internal/notes"
	"github.com/ytget/yt-notes/internal/platform"
)

// Task constants
const (
	TaskIDPrefix        = "fetch-"
	DefaultRetryBackoff = 2 * time.Second
)

// Options selects the fetch mode for one URL
type Options struct {
	AudioOnly bool
	NotesOnly bool
}

// Result is the outcome of a successful fetch
type Result struct {
	Task       *model.FetchTask
	Videos     []*model.VideoMetadata
	NotesPaths []string
}

// Service handles fetch operations
type Service struct {
	engine       Engine
	settings     *config.Settings
	playlists    PlaylistExpander
	log          *log.Helper
	tasksMutex   sync.Mutex
	retryBackoff time.Duration
	onUpdate     func(*model.FetchTask) // callback for progress output
}

// NewService creates a new fetch service
func NewService(engine Engine, settings *config.Settings, logger log.Logger) *Service {
	return &Service{
		engine:       engine,
		settings:     settings,
		log:          log.NewHelper(log.With(logger, "module", "download")),
		retryBackoff: DefaultRetryBackoff,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.FetchTask)) {
	s.onUpdate = callback
}

// SetPlaylistExpander enables per-video processing of playlist URLs in FetchAll
func (s *Service) SetPlaylistExpander(expander PlaylistExpander) {
	s.playlists = expander
}

// Fetch runs the engine for url and writes notes for every returned video.
// Media retrieval and metadata extraction are one engine call: when it fails
// no notes are written. Failures are logged and returned as *Error.
func (s *Service) Fetch(ctx context.Context, url string, opts Options) (*Result, error) {
	task := &model.FetchTask{
		ID:        generateTaskID(),
		URL:       url,
		Status:    model.TaskStatusPending,
		AudioOnly: opts.AudioOnly,
		NotesOnly: opts.NotesOnly,
		ETASec:    -1,
		StartedAt: time.Now(),
	}
	s.notifyUpdate(task)

	s.setStatus(task, model.TaskStatusFetching)
	s.log.Debugf("fetch %s started: url=%s notes_only=%t audio=%t", task.ID, url, opts.NotesOnly, opts.AudioOnly)

	videos, err := s.extractWithRetry(ctx, s.buildRequest(url, opts), task)
	if err != nil {
		return nil, s.fail(task, &Error{Kind: KindExtraction, URL: url, Err: err})
	}

	result := &Result{Task: task, Videos: videos}
	for _, meta := range videos {
		path, err := notes.Write(s.settings.OutputDirectory, meta)
		if err != nil {
			return nil, s.fail(task, &Error{Kind: KindNotes, URL: url, Err: err})
		}
		s.log.Infof("✓ Generated notes: %s", path)
		result.NotesPaths = append(result.NotesPaths, path)
	}

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusCompleted
	task.Percent = 100
	task.FinishedAt = time.Now()
	if len(videos) > 0 {
		task.Title = videos[0].DisplayTitle()
		task.OutputPath = videos[0].Filename
		task.NotesPath = result.NotesPaths[0]
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	if !task.NotesOnly && task.OutputPath != "" {
		s.log.Infof("✓ Downloaded: %s", task.OutputPath)
	}
	s.log.Debugf("fetch %s finished in %s", task.ID, task.Elapsed().Round(time.Millisecond))
	return result, nil
}

// FetchAll fetches url, expanding playlists into their videos first when a
// PlaylistExpander is set. Videos are processed one at a time and a failing
// video does not stop the rest. The returned error joins every failure.
func (s *Service) FetchAll(ctx context.Context, url string, opts Options) ([]*Result, error) {
	if s.playlists == nil || !s.settings.ExpandPlaylists || !platform.IsPlaylistURL(url) {
		result, err := s.Fetch(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		return []*Result{result}, nil
	}

	entries, err := s.playlists.ExpandPlaylist(ctx, url)
	if err != nil || len(entries) == 0 {
		if err == nil {
			err = errors.New("playlist is empty")
		}
		s.log.Warnf("playlist expansion failed, handing URL to yt-dlp: %v", err)
		result, err := s.Fetch(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		return []*Result{result}, nil
	}

	s.log.Infof("Playlist with %d videos: %s", len(entries), url)
	var (
		results []*Result
		errs    []error
	)
	for i, entry := range entries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		s.log.Infof("[%d/%d] %s", i+1, len(entries), entry.Title)
		result, err := s.Fetch(ctx, entry.Link, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

func (s *Service) buildRequest(url string, opts Options) Request {
	quality := s.settings.Quality
	if opts.AudioOnly {
		quality = config.QualityAudio
	}
	return Request{
		URL:              url,
		OutputDir:        s.settings.OutputDirectory,
		FilenameTemplate: s.settings.FilenameTemplate,
		Format:           quality.FormatSelector(),
		ExtractorArgs:    s.settings.ExtractorArgs,
		NotesOnly:        opts.NotesOnly,
		WriteInfoJSON:    s.settings.WriteInfoJSON && !opts.NotesOnly,
		WriteSubtitles:   s.settings.WriteSubtitles && !opts.NotesOnly,
	}
}

// extractWithRetry attempts extraction with retry logic
func (s *Service) extractWithRetry(ctx context.Context, req Request, task *model.FetchTask) ([]*model.VideoMetadata, error) {
	var lastErr error

	for attempt := 0; attempt <= s.settings.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			s.log.Infof("Retrying fetch %s, attempt %d", task.ID, attempt+1)
		}

		videos, err := s.engine.Extract(ctx, req, func(p Progress) {
			s.updateTaskProgress(task, p)
		})
		if err == nil {
			return videos, nil
		}

		lastErr = err
		s.log.Debugf("fetch attempt %d failed for %s: %v", attempt+1, task.ID, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// updateTaskProgress updates task progress from an engine report
func (s *Service) updateTaskProgress(task *model.FetchTask, p Progress) {
	s.tasksMutex.Lock()
	if p.TotalBytes > 0 {
		task.Percent = int(float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100)
	}

	if !p.Started.IsZero() {
		elapsed := time.Since(p.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(p.DownloadedBytes) / elapsed.Seconds()
			task.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	if p.ETA > 0 {
		task.ETASec = int(p.ETA.Seconds())
	}

	if p.Title != "" && task.Title == "" {
		task.Title = p.Title
	}
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

func (s *Service) setStatus(task *model.FetchTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) fail(task *model.FetchTask, err *Error) error {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	s.log.Errorf("✗ Download failed: %v", err)
	return err
}

// notifyUpdate calls the update callback, if set, with a snapshot of task
func (s *Service) notifyUpdate(task *model.FetchTask) {
	if s.onUpdate == nil {
		return
	}
	s.tasksMutex.Lock()
	snapshot := *task
	s.tasksMutex.Unlock()
	s.onUpdate(&snapshot)
}

// generateTaskID generates a unique, time-ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return TaskIDPrefix + uuid.NewString()
	}
	return TaskIDPrefix + id.String()
}
