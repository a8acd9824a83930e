// Package notes renders Markdown notes from video metadata.
package notes

import (
	"fmt"
	"strings"

	"github.com/ytget/yt-notes/internal/model"
	"github.com/ytget/yt-notes/internal/platform"
)

// Document constants
const (
	TOCHeading        = "## Table of Contents"
	NoChaptersLine    = "No chapters detected — full video notes."
	TranscriptHeading = "## Full Transcript/Subtitles"
	TranscriptPending = "*(Add auto-gen later)*"

	FileSuffix        = "-notes.md"
	LinkMediaExt      = ".mp4"
	chapterLineFormat = "- [%s](%s%s#t=%ds)\n"
)

// Generate renders the notes document for meta. It performs no I/O and
// returns identical output for identical input.
func Generate(meta *model.VideoMetadata) string {
	title := meta.DisplayTitle()

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")

	if meta != nil && meta.Description != "" {
		b.WriteString(meta.Description + "\n\n")
	}

	if meta.HasChapters() {
		b.WriteString(TOCHeading + "\n")
		for i, chapter := range meta.Chapters {
			fmt.Fprintf(&b, chapterLineFormat, chapter.DisplayTitle(i+1), title, LinkMediaExt, chapter.StartSeconds())
		}
		b.WriteString("\n")
	} else {
		b.WriteString(NoChaptersLine + "\n\n")
	}

	b.WriteString(TranscriptHeading + "\n" + TranscriptPending)
	return b.String()
}

// FileName returns the notes file name for a video title
func FileName(title string) string {
	return platform.SanitizeFileName(title) + FileSuffix
}

// Write renders the notes for meta into dir and returns the written path
func Write(dir string, meta *model.VideoMetadata) (string, error) {
	return platform.WriteFile(dir, FileName(meta.DisplayTitle()), []byte(Generate(meta)))
}
