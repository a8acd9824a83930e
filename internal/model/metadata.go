package model

import "fmt"

// DefaultTitle is used when the extractor reports no title
const DefaultTitle = "Untitled"

// ChapterTitleTemplate names chapters that carry no title (1-based index)
const ChapterTitleTemplate = "Chapter %d"

// Chapter is a named timestamp within a video
type Chapter struct {
	StartTime float64 `json:"start_time"` // seconds, fractional allowed
	Title     string  `json:"title"`
}

// StartSeconds returns the start time truncated to whole seconds
func (c Chapter) StartSeconds() int64 {
	if c.StartTime <= 0 {
		return 0
	}
	return int64(c.StartTime)
}

// DisplayTitle returns the chapter title or "Chapter {index}" when absent.
// index is 1-based.
func (c Chapter) DisplayTitle(index int) string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf(ChapterTitleTemplate, index)
}

// VideoMetadata is the record produced by the extraction engine for one video.
// Chapters are kept in the order reported by the engine.
type VideoMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
	WebpageURL  string    `json:"webpage_url"`
	Duration    float64   `json:"duration"`
	Filename    string    `json:"filename"` // media path, empty in notes-only mode
}

// DisplayTitle returns the title or DefaultTitle when absent
func (m *VideoMetadata) DisplayTitle() string {
	if m == nil || m.Title == "" {
		return DefaultTitle
	}
	return m.Title
}

// HasChapters reports whether the video carries chapter markers
func (m *VideoMetadata) HasChapters() bool {
	return m != nil && len(m.Chapters) > 0
}
