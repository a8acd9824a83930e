package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FetchTask tracks a single fetch of one URL through the extraction engine
type FetchTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	AudioOnly  bool
	NotesOnly  bool
	Percent    int       // 0 to 100
	Speed      string    // human readable speed (e.g., "1.2MB/s")
	ETASec     int       // ETA in seconds, -1 if unknown
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded media
	NotesPath  string    // path to generated notes
	StartedAt  time.Time // when the fetch started
	FinishedAt time.Time // when the fetch finished
	Title      string    // video title
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (ft *FetchTask) GetETAString() string {
	if ft.ETASec <= 0 {
		return "—"
	}

	hours := ft.ETASec / 3600
	minutes := (ft.ETASec % 3600) / 60
	seconds := ft.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (ft *FetchTask) GetDisplayTitle() string {
	if ft.Title != "" && !strings.HasPrefix(ft.Title, "http") {
		return ft.Title
	}

	if ft.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(ft.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			return strings.TrimSuffix(filename, filepath.Ext(filename))
		}
	}

	return ft.URL
}

// Elapsed returns how long the task ran, or has been running
func (ft *FetchTask) Elapsed() time.Duration {
	if ft.StartedAt.IsZero() {
		return 0
	}
	if ft.FinishedAt.IsZero() {
		return time.Since(ft.StartedAt)
	}
	return ft.FinishedAt.Sub(ft.StartedAt)
}
