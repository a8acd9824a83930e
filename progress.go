package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ytget/yt-notes/internal/model"
)

const progressThrottle = time.Second

// progressPrinter writes download progress lines to stderr so stdout stays clean
type progressPrinter struct {
	w        io.Writer
	throttle time.Duration
	now      func() time.Time

	mu          sync.Mutex
	lastPrinted map[string]time.Time
	lastPercent map[string]int
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{
		w:           w,
		throttle:    progressThrottle,
		now:         time.Now,
		lastPrinted: make(map[string]time.Time),
		lastPercent: make(map[string]int),
	}
}

// OnUpdate receives task snapshots from the download service
func (p *progressPrinter) OnUpdate(task *model.FetchTask) {
	if task == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if task.Status.IsFinished() {
		delete(p.lastPrinted, task.ID)
		delete(p.lastPercent, task.ID)
		return
	}
	if !task.Status.IsActive() || task.Percent <= 0 {
		return
	}

	now := p.now()
	last, seen := p.lastPrinted[task.ID]
	complete := task.Percent >= 100 && p.lastPercent[task.ID] < 100
	if seen && now.Sub(last) < p.throttle && !complete {
		return
	}
	p.lastPrinted[task.ID] = now
	p.lastPercent[task.ID] = task.Percent

	fmt.Fprintln(p.w, formatProgress(task))
}

func formatProgress(task *model.FetchTask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %3d%%", progressLabel(task), truncate(task.GetDisplayTitle(), 60), task.Percent)
	if task.Speed != "" {
		b.WriteString(" ")
		b.WriteString(task.Speed)
	}
	b.WriteString(" ETA ")
	b.WriteString(task.GetETAString())
	return b.String()
}

func progressLabel(task *model.FetchTask) string {
	switch {
	case task.NotesOnly:
		return "Extracting"
	case task.AudioOnly:
		return "Downloading audio"
	default:
		return "Downloading"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
